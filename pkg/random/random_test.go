package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomString_Length(t *testing.T) {
	for _, length := range []int{1, 4, 8, 16} {
		s, err := NewRandomString(length)
		require.NoError(t, err)
		assert.Len(t, s, length)
	}
}

func TestNewRandomString_Alphabet(t *testing.T) {
	s, err := NewRandomString(256)
	require.NoError(t, err)

	for _, r := range s {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected character %q", r)
	}
}

func TestNewRandomString_InvalidLength(t *testing.T) {
	_, err := NewRandomString(0)
	assert.Error(t, err)

	_, err = NewRandomString(-3)
	assert.Error(t, err)
}

func TestNewRandomString_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := NewRandomString(8)
		require.NoError(t, err)
		seen[s] = true
	}
	// 50 draws from a 58^8 space colliding would mean a broken generator.
	assert.Greater(t, len(seen), 45)
}
