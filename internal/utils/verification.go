package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var otpCodeSpace = big.NewInt(1000000)

// GenerateVerificationCode generates a uniformly random 6-digit
// verification code, zero-padded
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpCodeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
