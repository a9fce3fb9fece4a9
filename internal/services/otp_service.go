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
	"github.com/edtech-scanner/app-auth/internal/utils"
	"go.uber.org/zap"
)

// OTPService owns the lifecycle of one-time passcodes: generation,
// storage, verification and the failed-attempt lockout. At most one
// code is live per phone number; issuing a new code silently replaces
// the previous one.
type OTPService struct {
	store         store.Store
	ttl           time.Duration
	attemptWindow time.Duration
	attemptMax    int64
	logger        *logging.SafeLogger
}

// NewOTPService creates an OTP lifecycle manager
func NewOTPService(s store.Store, ttl, attemptWindow time.Duration, attemptMax int64) *OTPService {
	return &OTPService{
		store:         s,
		ttl:           ttl,
		attemptWindow: attemptWindow,
		attemptMax:    attemptMax,
		logger:        logging.Logger,
	}
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}

func attemptsKey(phone string) string {
	return fmt.Sprintf("otp_attempts:%s", phone)
}

// Issue generates a fresh 6-digit code for phone and stores it,
// replacing any code already live for that number. It returns the code
// and its time to live so the caller can deliver it.
func (o *OTPService) Issue(ctx context.Context, phone string) (string, time.Duration, error) {
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := o.store.SetWithTTL(ctx, otpKey(phone), code, o.ttl); err != nil {
		return "", 0, fmt.Errorf("failed to store verification code: %w", err)
	}

	observability.OTPIssued.Inc()
	o.logger.Info("OTP issued",
		zap.String("phone", observability.MaskPhone(phone)),
		zap.Duration("ttl", o.ttl))
	return code, o.ttl, nil
}

// Verify checks submitted against the live code for phone.
//
// On success the code and the attempt counter are both deleted, so a
// code can never be consumed twice. A mismatch counts one failed
// attempt; once the maximum is reached the live code is destroyed and
// models.ErrLockedOut is returned, forcing the caller back through
// issuance. When no code is live, Verify returns models.ErrOTPNotFound
// without touching the attempt counter.
func (o *OTPService) Verify(ctx context.Context, phone, submitted string) error {
	code, err := o.store.Get(ctx, otpKey(phone))
	if err != nil {
		if err == store.ErrNotFound {
			observability.OTPVerifications.WithLabelValues("not_found").Inc()
			return models.ErrOTPNotFound
		}
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	failures, err := o.failedAttempts(ctx, phone)
	if err != nil {
		return err
	}

	if failures >= o.attemptMax {
		// The live code is destroyed even though it was still valid;
		// the caller must go back through issuance
		if err := o.store.Delete(ctx, otpKey(phone)); err != nil {
			return fmt.Errorf("failed to delete verification code: %w", err)
		}
		observability.OTPVerifications.WithLabelValues("locked_out").Inc()
		o.logger.Warn("OTP verification locked out",
			zap.String("phone", observability.MaskPhone(phone)),
			zap.Int64("failures", failures))
		return models.ErrLockedOut
	}

	if submitted != code {
		failures, err := o.store.IncrementWithTTL(ctx, attemptsKey(phone), o.attemptWindow)
		if err != nil {
			return fmt.Errorf("failed to record failed attempt: %w", err)
		}

		// Lockout itself triggers on the next call, once the counter
		// is read back at or above the maximum
		remaining := o.attemptMax - failures
		if remaining < 0 {
			remaining = 0
		}
		observability.OTPVerifications.WithLabelValues("mismatch").Inc()
		o.logger.Info("OTP verification failed",
			zap.String("phone", observability.MaskPhone(phone)),
			zap.Int64("remaining_attempts", remaining))
		return &models.InvalidCodeError{RemainingAttempts: remaining}
	}

	if err := o.store.Delete(ctx, otpKey(phone), attemptsKey(phone)); err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}

	observability.OTPVerifications.WithLabelValues("success").Inc()
	o.logger.Info("OTP verified",
		zap.String("phone", observability.MaskPhone(phone)))
	return nil
}

func (o *OTPService) failedAttempts(ctx context.Context, phone string) (int64, error) {
	value, err := o.store.Get(ctx, attemptsKey(phone))
	if err != nil {
		if err == store.ErrNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read attempt counter: %w", err)
	}

	failures, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt attempt counter %q: %w", value, err)
	}
	return failures, nil
}
