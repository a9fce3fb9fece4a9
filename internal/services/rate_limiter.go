package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/store"
	"go.uber.org/zap"
)

// OTPRateLimiter caps how many OTPs a single phone number may request
// inside a sliding issuance window. The window starts at the first
// issuance and is never extended by later ones; once it expires the
// count resets to zero.
type OTPRateLimiter struct {
	store  store.Store
	max    int64
	window time.Duration
	logger *logging.SafeLogger
}

// NewOTPRateLimiter creates a rate limiter backed by the given store
func NewOTPRateLimiter(s store.Store, max int64, window time.Duration) *OTPRateLimiter {
	return &OTPRateLimiter{
		store:  s,
		max:    max,
		window: window,
		logger: logging.Logger,
	}
}

func rateKey(phone string) string {
	return fmt.Sprintf("otp_rate:%s", phone)
}

// Admit reports whether a new OTP may be issued to phone. It returns
// models.ErrRateLimited when the issuance cap for the current window has
// been reached. Admit never mutates the counter; call Record after the
// OTP has actually been issued.
func (r *OTPRateLimiter) Admit(ctx context.Context, phone string) error {
	value, err := r.store.Get(ctx, rateKey(phone))
	if err != nil {
		if err == store.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to read issuance counter: %w", err)
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("corrupt issuance counter %q: %w", value, err)
	}

	if count >= r.max {
		observability.RateLimitRejections.Inc()
		r.logger.Warn("OTP issuance rate limited",
			zap.String("phone", observability.MaskPhone(phone)),
			zap.Int64("count", count))
		return models.ErrRateLimited
	}
	return nil
}

// Record counts one issuance against phone. The window TTL is attached
// only when this call creates the counter.
func (r *OTPRateLimiter) Record(ctx context.Context, phone string) error {
	count, err := r.store.IncrementWithTTL(ctx, rateKey(phone), r.window)
	if err != nil {
		return fmt.Errorf("failed to record issuance: %w", err)
	}

	r.logger.Debug("OTP issuance recorded",
		zap.String("phone", observability.MaskPhone(phone)),
		zap.Int64("count", count))
	return nil
}
