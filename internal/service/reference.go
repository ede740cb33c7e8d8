package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	referenceCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8
	referenceAttempts = 5
)

// newBookingReference returns an 8-character uppercase alphanumeric code.
// Uniqueness is the caller's responsibility; collisions are rare but real.
func newBookingReference() (string, error) {
	buf := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate booking reference: %w", err)
		}
		buf[i] = referenceCharset[n.Int64()]
	}
	return string(buf), nil
}
