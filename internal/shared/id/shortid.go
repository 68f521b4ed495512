// Package id generates Stripe-style prefixed identifiers ("sr_xK9mP2vL3nQw").
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// PrefixServiceRequest prefixes every service request SID.
const PrefixServiceRequest = "sr"

// Generate creates a cryptographically random Base62 string of the given length.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := range result {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	short, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + short, nil
}

// NewServiceRequestID generates a new service request SID.
func NewServiceRequestID() (string, error) {
	return GenerateWithPrefix(PrefixServiceRequest, DefaultLength)
}

// ValidatePrefix checks that prefixedID is "<expectedPrefix>_<base62>".
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, short, ok := strings.Cut(prefixedID, "_")
	if !ok || short == "" {
		return fmt.Errorf("invalid prefixed ID format: %q", prefixedID)
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	for i := 0; i < len(short); i++ {
		if !strings.ContainsRune(alphabet, rune(short[i])) {
			return fmt.Errorf("invalid character in ID %q", prefixedID)
		}
	}
	return nil
}
