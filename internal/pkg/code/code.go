package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Numeric generates a fixed-length numeric one-time code using crypto/rand.
// Leading zeros are preserved, so a 6-digit code can be "004217".
func Numeric(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
