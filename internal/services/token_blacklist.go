package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/store"
	"go.uber.org/zap"
)

// TokenBlacklist records signed-out session tokens so they are
// rejected by authorization checks until they expire naturally.
type TokenBlacklist struct {
	store  store.Store
	ttl    time.Duration
	logger *logging.SafeLogger
}

// NewTokenBlacklist creates a revocation registry backed by the given store
func NewTokenBlacklist(s store.Store, ttl time.Duration) *TokenBlacklist {
	return &TokenBlacklist{
		store:  s,
		ttl:    ttl,
		logger: logging.Logger,
	}
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// Revoke records token as signed out. Revoking an already revoked
// token has the same observable effect as revoking it once; the
// registry entry and its TTL are simply rewritten.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string) error {
	if err := b.store.SetWithTTL(ctx, blacklistKey(token), "1", b.ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	observability.TokenRevocations.Inc()
	b.logger.Info("session token revoked",
		zap.String("token", observability.MaskToken(token)))
	return nil
}

// IsRevoked reports whether token has been signed out
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := b.store.Get(ctx, blacklistKey(token))
	if err != nil {
		if err == store.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}
