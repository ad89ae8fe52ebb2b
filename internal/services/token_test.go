package services

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// shannonEntropy returns the per-character entropy of s in bits.
func shannonEntropy(s string) float64 {
	counts := make(map[rune]int)
	for _, r := range s {
		counts[r]++
	}
	var h float64
	n := float64(len(s))
	for _, c := range counts {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

func TestGenerateInvitationToken(t *testing.T) {
	const count = 10000
	seen := make(map[string]struct{}, count)

	for i := 0; i < count; i++ {
		token, err := GenerateInvitationToken()
		require.NoError(t, err)
		require.Len(t, token, TokenLength)

		_, err = hex.DecodeString(token)
		require.NoError(t, err, "token must be hex: %s", token)
		require.Greater(t, shannonEntropy(token), 3.0, "low entropy token: %s", token)

		_, dup := seen[token]
		require.False(t, dup, "duplicate token after %d generations", i)
		seen[token] = struct{}{}
	}
}
