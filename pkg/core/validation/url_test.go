package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBookmarkURL(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
	}{
		{name: "https kept", input: "https://example.com", expected: "https://example.com"},
		{name: "http kept", input: "http://example.com", expected: "http://example.com"},
		{name: "scheme prepended", input: "example.com/page", expected: "https://example.com/page"},
		{name: "www prepended", input: "www.example.com", expected: "https://www.example.com"},
		{name: "query kept", input: "example.com?foo=bar", expected: "https://example.com?foo=bar"},
		{name: "port allowed", input: "example.com:8080/x", expected: "https://example.com:8080/x"},
		{name: "uppercase scheme kept", input: "HTTPS://Example.COM", expected: "HTTPS://Example.COM"},
		{name: "surrounding whitespace trimmed", input: "  example.org  ", expected: "https://example.org"},
		{name: "empty", input: "", shouldError: true},
		{name: "spaces inside", input: "not a url", shouldError: true},
		{name: "localhost", input: "localhost:3000", shouldError: true},
		{name: "ipv4 literal", input: "http://192.168.1.10", shouldError: true},
		{name: "bare word", input: "intranet", shouldError: true},
		{name: "numeric tld", input: "example.123", shouldError: true},
		{name: "one letter tld", input: "example.c", shouldError: true},
		{name: "other scheme becomes host", input: "ftp://example.com", shouldError: true},
		{name: "no host", input: "https://", shouldError: true},
		{name: "double dot", input: "example..com", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBookmarkURL(tt.input)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateFaviconURL(t *testing.T) {
	assert.NoError(t, ValidateFaviconURL("https://www.google.com/s2/favicons?domain=example.com"))
	assert.NoError(t, ValidateFaviconURL("http://localhost:8080/favicon.ico"))
	assert.Error(t, ValidateFaviconURL("example.com/favicon.ico"))
	assert.Error(t, ValidateFaviconURL("not a url"))
	assert.Error(t, ValidateFaviconURL(""))
}

func TestFaviconFor(t *testing.T) {
	assert.Equal(t, "https://icons.duckduckgo.com/ip3/www.cloudways.com.ico", FaviconFor("https://www.cloudways.com/en/"))
	assert.Equal(t, "", FaviconFor("::"))
}
