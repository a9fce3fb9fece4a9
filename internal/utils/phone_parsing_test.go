package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhoneNumber(t *testing.T) {
	details, err := ParsePhoneNumber("+85512345678")
	require.NoError(t, err)
	assert.Equal(t, 855, details.CountryCode)
	assert.Equal(t, "+85512345678", details.E164)
	assert.Equal(t, "KH", details.Region)
}

func TestParsePhoneNumber_MissingPlus(t *testing.T) {
	_, err := ParsePhoneNumber("85512345678")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leading +")
}

func TestFormatForDelivery_Fallback(t *testing.T) {
	// Unparseable input comes back untouched
	assert.Equal(t, "+1", FormatForDelivery("+1"))
}
