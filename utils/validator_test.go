package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("familia.garcia@example.com"))
	assert.True(t, ValidateEmail("a+b@sub.example.org"))
	assert.False(t, ValidateEmail("familia@"))
	assert.False(t, ValidateEmail("no-at-sign.example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateLink(t *testing.T) {
	assert.True(t, ValidateLink("https://example.com/video"))
	assert.True(t, ValidateLink("HTTP://EXAMPLE.COM"))
	assert.True(t, ValidateLink("  https://example.com  "))
	assert.False(t, ValidateLink("ftp://example.com"))
	assert.False(t, ValidateLink("example.com"))
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("longenough")
	assert.True(t, ok)

	ok, msg := ValidatePassword("short")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("demo1234")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "demo1234"))
	assert.False(t, CheckPassword(hash, "demo12345"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hola", SanitizeInput("  hola\x00  "))
}
