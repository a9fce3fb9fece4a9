// Package services implements the authentication core: OTP issuance
// and verification, per-phone rate limiting, session token minting and
// the sign-out revocation registry. AuthService is the orchestrator;
// the other types in this package are its collaborators and are usable
// on their own.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/edtech-scanner/app-auth/internal/logging"
	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/utils"
	"go.uber.org/zap"
)

// AuthService drives the sign-in flows end to end
type AuthService struct {
	limiter   *OTPRateLimiter
	otp       *OTPService
	tokens    *TokenService
	blacklist *TokenBlacklist
	identity  IdentityResolver
	verifier  AssertionVerifier
	sender    utils.Sender
	logger    *logging.SafeLogger
}

// NewAuthService wires the authentication flows together
func NewAuthService(
	limiter *OTPRateLimiter,
	otp *OTPService,
	tokens *TokenService,
	blacklist *TokenBlacklist,
	identity IdentityResolver,
	verifier AssertionVerifier,
	sender utils.Sender,
) *AuthService {
	return &AuthService{
		limiter:   limiter,
		otp:       otp,
		tokens:    tokens,
		blacklist: blacklist,
		identity:  identity,
		verifier:  verifier,
		sender:    sender,
		logger:    logging.Logger,
	}
}

// RequestOTP issues and delivers a one-time passcode to phone. It
// returns the code's time to live for the caller's response. The rate
// counter is recorded only after the code has been stored, so a
// storage failure never burns one of the caller's issuance slots.
func (a *AuthService) RequestOTP(ctx context.Context, phone string) (time.Duration, error) {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		return 0, models.ErrInvalidPhone
	}

	if err := a.limiter.Admit(ctx, phone); err != nil {
		return 0, err
	}

	code, ttl, err := a.otp.Issue(ctx, phone)
	if err != nil {
		return 0, err
	}

	if err := a.sender.SendVerificationCode(ctx, phone, code); err != nil {
		a.logger.Error("failed to deliver verification code",
			zap.String("phone", observability.MaskPhone(phone)),
			zap.Error(err))
		return 0, err
	}

	if err := a.limiter.Record(ctx, phone); err != nil {
		return 0, err
	}
	return ttl, nil
}

// VerifyOTP validates a submitted passcode, resolves the identity
// bound to phone and mints a session token
func (a *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*models.TokenResponse, error) {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		return nil, models.ErrInvalidPhone
	}

	if err := a.otp.Verify(ctx, phone, code); err != nil {
		return nil, err
	}

	user, err := a.identity.ResolveOrCreate(ctx, models.AuthMethodPhone, phone, IdentityAttributes{})
	if err != nil {
		return nil, err
	}

	return a.issueFor(user)
}

// GoogleSignIn validates an externally issued Google ID token,
// resolves the identity bound to the Google account and mints a
// session token
func (a *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*models.TokenResponse, error) {
	external, err := a.verifier.VerifyAssertion(ctx, idToken)
	if err != nil {
		return nil, err
	}

	attrs := IdentityAttributes{
		Email:          external.Email,
		FullName:       external.Name,
		ProfilePicture: external.Picture,
	}
	user, err := a.identity.ResolveOrCreate(ctx, models.AuthMethodGoogle, external.ExternalID, attrs)
	if err != nil {
		return nil, err
	}

	return a.issueFor(user)
}

// SignOut revokes a session token. Revoking the same token again is a
// harmless repeat.
func (a *AuthService) SignOut(ctx context.Context, token string) error {
	return a.blacklist.Revoke(ctx, token)
}

func (a *AuthService) issueFor(user *models.User) (*models.TokenResponse, error) {
	token, err := a.tokens.Issue(user.ID.Hex(), user.AuthMethod)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(a.tokens.Expiry().Seconds()),
		User:        user,
	}, nil
}
