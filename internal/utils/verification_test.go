package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code must be numeric: %s", code)
		}
		seen[code] = true
	}

	// 200 draws from a million-code space collapsing to a handful of
	// values would indicate a broken generator
	assert.Greater(t, len(seen), 150)
}
