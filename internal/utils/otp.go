package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewResetCode returns a 6-digit numeric one-time code drawn uniformly from
// [100000, 999999] using the crypto random source.
func NewResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
