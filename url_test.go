package ammonia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "http://example.com/", expected: "http://example.com/"},
		{in: " \x00\x1fhttp://example.com/ \x0e", expected: "http://example.com/"},
		{in: "java\tscr\nipt:x", expected: "javascript:x"},
		{in: "a\r\nb", expected: "ab"},
		{in: "", expected: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeURL(tt.in), "input: %q", tt.in)
	}
}

func TestURLScheme(t *testing.T) {
	tests := []struct {
		in     string
		scheme string
		ok     bool
	}{
		{in: "http://example.com/", scheme: "http", ok: true},
		{in: "JavaScript:alert(1)", scheme: "JavaScript", ok: true},
		{in: "web+app:x", scheme: "web+app", ok: true},
		{in: "mailto:a@example.com", scheme: "mailto", ok: true},
		{in: "/path:x"},
		{in: "//example.com/"},
		{in: "?q=a:b"},
		{in: "#a:b"},
		{in: "1http://x"},
		{in: "java script:x"},
		{in: "no-colon"},
		{in: ""},
	}

	for _, tt := range tests {
		scheme, ok := urlScheme(tt.in)
		assert.Equal(t, tt.ok, ok, "input: %q", tt.in)
		assert.Equal(t, tt.scheme, scheme, "input: %q", tt.in)
	}
}

func TestSanitizer_cleanURL(t *testing.T) {
	s := MustNew(NewPolicy().AllowURLSchemes("https", "mailto"))

	tests := []struct {
		in       string
		expected string
		ok       bool
	}{
		{in: "https://example.com/", expected: "https://example.com/", ok: true},
		{in: "HTTPS://example.com/", expected: "HTTPS://example.com/", ok: true},
		{in: " https://example.com/", expected: " https://example.com/", ok: true},
		{in: "mailto:a@example.com", expected: "mailto:a@example.com", ok: true},
		{in: "/relative", expected: "/relative", ok: true},
		{in: "http://example.com/"},
		{in: "javascript:alert(1)"},
		{in: "\x01javascript:alert(1)"},
		{in: "https://example.com/%zz"},
	}

	for _, tt := range tests {
		got, ok := s.cleanURL(tt.in)
		assert.Equal(t, tt.ok, ok, "input: %q", tt.in)
		assert.Equal(t, tt.expected, got, "input: %q", tt.in)
	}
}

func TestIsURLAttr(t *testing.T) {
	assert.True(t, isURLAttr("a", "href"))
	assert.True(t, isURLAttr("img", "srcset"))
	assert.True(t, isURLAttr("a", "ping"))
	assert.True(t, isURLAttr("object", "data"))
	assert.False(t, isURLAttr("div", "data"))
	assert.False(t, isURLAttr("a", "title"))
}
