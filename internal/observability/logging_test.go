package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"cambodian number", "+85512345678", "+855******78"},
		{"short input", "+855", "****"},
		{"minimum length", "+85512", "+85512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPhone(tt.phone))
		})
	}
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "********", MaskToken("short"))
	assert.Equal(t, "eyJh...Zx9Q", MaskToken("eyJhbGciOiJIUzI1NiJ9.abc.Zx9Q"))
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger())
}
