package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// TTL is the validity window of a freshly issued code.
const TTL = 5 * time.Minute

// Digits is the fixed code length.
const Digits = 6

// Generate returns a 6-digit numeric code sampled uniformly from
// [100000, 999999] using crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// ExpiryFrom returns the Unix expiry instant for a code issued at now.
func ExpiryFrom(now time.Time) int64 {
	return now.Add(TTL).Unix()
}
