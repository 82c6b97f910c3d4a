package types_test

import (
	"testing"
	"time"

	"github.com/distr-sh/recoverd/internal/types"
	"github.com/distr-sh/recoverd/internal/util"
	. "github.com/onsi/gomega"
)

func TestAuthenticationTokenUsable(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		token    types.AuthenticationToken
		expected bool
	}{
		{
			name:     "active without expiry",
			token:    types.AuthenticationToken{Active: true},
			expected: true,
		},
		{
			name:     "active before expiry",
			token:    types.AuthenticationToken{Active: true, ExpiresAt: util.PtrTo(now.Add(time.Minute))},
			expected: true,
		},
		{
			name:     "active at expiry",
			token:    types.AuthenticationToken{Active: true, ExpiresAt: util.PtrTo(now)},
			expected: false,
		},
		{
			name:     "inactive",
			token:    types.AuthenticationToken{Active: false},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(tt.token.Usable(now)).To(Equal(tt.expected))
		})
	}
}

func TestParseAuthenticationTokenKind(t *testing.T) {
	g := NewWithT(t)

	kind, err := types.ParseAuthenticationTokenKind("recovery")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(kind).To(Equal(types.AuthenticationTokenKindRecovery))

	_, err = types.ParseAuthenticationTokenKind("login")
	g.Expect(err).To(HaveOccurred())
}
