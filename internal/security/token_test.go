package security_test

import (
	"strings"
	"testing"

	"github.com/distr-sh/recoverd/internal/security"
	. "github.com/onsi/gomega"
)

func TestGenerateTokenSecret(t *testing.T) {
	g := NewWithT(t)

	secret, err := security.GenerateTokenSecret()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(secret).To(HaveLen(security.TokenSecretLength))
	g.Expect(secret).To(MatchRegexp("^[0-9a-f]{64}$"))
	g.Expect(security.IsWellFormedTokenSecret(secret)).To(BeTrue())
}

func TestGenerateTokenSecret_Uniqueness(t *testing.T) {
	g := NewWithT(t)

	seen := make(map[string]bool)
	for range 100 {
		secret, err := security.GenerateTokenSecret()
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(seen[secret]).To(BeFalse(), "duplicate secret found: %s", secret)
		seen[secret] = true
	}
}

func TestNormalizeTokenSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase",
			input:    "abcdef0123",
			expected: "abcdef0123",
		},
		{
			name:     "uppercase",
			input:    "ABCDEF0123",
			expected: "abcdef0123",
		},
		{
			name:     "surrounding whitespace",
			input:    "  abcdef0123\n",
			expected: "abcdef0123",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(security.NormalizeTokenSecret(tt.input)).To(Equal(tt.expected))
		})
	}
}

func TestIsWellFormedTokenSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "valid",
			input:    strings.Repeat("ab", 32),
			expected: true,
		},
		{
			name:     "too short",
			input:    strings.Repeat("ab", 31),
			expected: false,
		},
		{
			name:     "too long",
			input:    strings.Repeat("ab", 33),
			expected: false,
		},
		{
			name:     "not hex",
			input:    strings.Repeat("zz", 32),
			expected: false,
		},
		{
			name:     "empty string",
			input:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(security.IsWellFormedTokenSecret(tt.input)).To(Equal(tt.expected))
		})
	}
}

func TestTokenSecretsEqual(t *testing.T) {
	g := NewWithT(t)

	g.Expect(security.TokenSecretsEqual("abc", "abc")).To(BeTrue())
	g.Expect(security.TokenSecretsEqual("abc", "abd")).To(BeFalse())
	g.Expect(security.TokenSecretsEqual("abc", "abcd")).To(BeFalse())
}
