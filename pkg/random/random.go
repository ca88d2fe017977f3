package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// URL-safe alphabet for short codes. Ambiguous pairs (0/O, 1/l/I)
// are excluded so codes survive being read aloud or retyped.
const alphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRandomString generates a random string of the given length
// drawn from the short-code alphabet using crypto/rand.
func NewRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length: %d", length)
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}

	return string(b), nil
}
