package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const (
	tokenEntropyBytes = 32
	// TokenLength is the length of a generated invitation token in characters.
	TokenLength       = 2 * 64
)

// TokenGenerator produces invitation tokens.
type TokenGenerator func() (string, error)

// GenerateInvitationToken returns a hex encoded SHA3-512 digest of 256 bits
// read from crypto/rand. The result is URL and QR safe.
func GenerateInvitationToken() (string, error) {
	seed := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(seed); err != nil {
		return "", fmt.Errorf("read random seed: %w", err)
	}
	sum := sha3.Sum512(seed)
	return hex.EncodeToString(sum[:]), nil
}
