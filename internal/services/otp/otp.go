// Package otp stores one-time admin login codes.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Store keeps at most one pending code per email.
type Store interface {
	// Put stores code for email, replacing any pending one.
	Put(ctx context.Context, email, code string) error
	// Verify consumes the pending code when it matches. A mismatch counts
	// as an attempt; the entry is dropped once attempts reach the limit.
	Verify(ctx context.Context, email, code string) (bool, error)
	// Delete discards the pending code, if any.
	Delete(ctx context.Context, email string) error
}

// Generate returns a random six-digit code in 100000..999999.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
