package models

import (
	"errors"
	"fmt"
)

// Error constants for authentication operations. All of these are
// expected business outcomes surfaced to the caller; infrastructure
// failures are wrapped separately and never use these sentinels.
var (
	ErrInvalidPhone     = errors.New("phone number must be in E.164 format")
	ErrRateLimited      = errors.New("too many OTP requests")
	ErrOTPNotFound      = errors.New("OTP not found or expired")
	ErrLockedOut        = errors.New("too many failed attempts")
	ErrInvalidAssertion = errors.New("invalid identity assertion")
)

// InvalidCodeError reports a failed OTP comparison and how many
// attempts remain before lockout
type InvalidCodeError struct {
	RemainingAttempts int64
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid OTP, %d attempts remaining", e.RemainingAttempts)
}
