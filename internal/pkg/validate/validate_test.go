package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	assert.True(t, Email("user@example.com"))
	assert.False(t, Email("user@example"))
	assert.False(t, Email("user example@x.com"))
	assert.False(t, Email(strings.Repeat("a", 250)+"@x.com"))
}

func TestPhone(t *testing.T) {
	assert.True(t, Phone("+1 (555) 010-2030"))
	assert.True(t, Phone("919876543210"))
	assert.False(t, Phone("555-0102"))
	assert.False(t, Phone("1234567890123456"))
}

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("  example.com/login ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/login", got)

	got, err = NormalizeURL("http://bit.ly/x")
	require.NoError(t, err)
	assert.Equal(t, "http://bit.ly/x", got)

	_, err = NormalizeURL("")
	assert.Error(t, err)

	_, err = NormalizeURL("httpx://example.com")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	in := `  <b>Jane</b> <script>alert("x")</script>Doe  `
	assert.Equal(t, "Jane Doe", Sanitize(in, 1000))
	assert.Equal(t, "abc", Sanitize("abcdef", 3))
}

type sample struct {
	Kind  string `json:"kind" validate:"required,oneof=a b"`
	Email string `json:"email" validate:"omitempty,emailaddr"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Kind: "a", Email: "x@y.io", Phone: "5550102030"}))

	err := Struct(sample{Email: "nope", Phone: "12"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind is required")
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "phone must contain 10-15 digits")
}
