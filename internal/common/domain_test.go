package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "https prefix and trailing slash",
			input:    "https://mysite.atlassian.net/",
			expected: "mysite.atlassian.net",
		},
		{
			name:     "http prefix",
			input:    "http://mysite.atlassian.net",
			expected: "mysite.atlassian.net",
		},
		{
			name:     "bare domain unchanged",
			input:    "mysite.atlassian.net",
			expected: "mysite.atlassian.net",
		},
		{
			name:     "surrounding whitespace",
			input:    "  https://mysite.atlassian.net  ",
			expected: "mysite.atlassian.net",
		},
		{
			name:     "multiple trailing slashes",
			input:    "https://mysite.atlassian.net///",
			expected: "mysite.atlassian.net",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDomain(tt.input))
		})
	}
}

func TestNormalizeDomain_Idempotent(t *testing.T) {
	once := NormalizeDomain("https://mysite.atlassian.net/")
	twice := NormalizeDomain(once)
	assert.Equal(t, once, twice)
}
