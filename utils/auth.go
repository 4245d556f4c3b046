package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/sethvargo/go-password/password"
)

// GeneratePIN returns a random 6-digit PIN for the admin surface.
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate pin: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateAPIKey returns a random key for machine-to-machine clients.
func GenerateAPIKey() (string, error) {
	return password.Generate(32, 10, 0, false, true)
}
