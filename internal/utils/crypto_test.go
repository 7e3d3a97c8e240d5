// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumber(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		ref, err := GenerateOrderNumber()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(ref, "TS-"), ref)
		assert.Len(t, ref, 13)

		for _, ch := range ref[3:] {
			assert.Contains(t, orderNumberAlphabet, string(ch), "unexpected character in %s", ref)
		}

		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
