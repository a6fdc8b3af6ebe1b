package security

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, IsJSONContentType("application/json"))
	assert.True(t, IsJSONContentType("application/json; charset=utf-8"))
	assert.False(t, IsJSONContentType("text/plain"))
	assert.False(t, IsJSONContentType(""))
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Accept", "application/json")

	out := RedactHeaders(h)
	assert.Equal(t, "[redacted]", out.Get("Authorization"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Equal(t, "Bearer abc", h.Get("Authorization"), "input untouched")
}
