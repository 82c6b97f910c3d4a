package envparse_test

import (
	"testing"
	"time"

	"github.com/distr-sh/recoverd/internal/envparse"
	. "github.com/onsi/gomega"
)

func TestPositiveDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "hours", input: "24h", expected: 24 * time.Hour},
		{name: "minutes", input: "90m", expected: 90 * time.Minute},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-1h", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			result, err := envparse.PositiveDuration(tt.input)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
			} else {
				g.Expect(err).NotTo(HaveOccurred())
				g.Expect(result).To(Equal(tt.expected))
			}
		})
	}
}

func TestNonNegativeDuration(t *testing.T) {
	g := NewWithT(t)

	d, err := envparse.NonNegativeDuration("0")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d).To(BeZero())

	_, err = envparse.NonNegativeDuration("-5s")
	g.Expect(err).To(HaveOccurred())
}

func TestMailAddress(t *testing.T) {
	g := NewWithT(t)

	addr, err := envparse.MailAddress("Recovery <noreply@example.com>")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(addr.Name).To(Equal("Recovery"))
	g.Expect(addr.Address).To(Equal("noreply@example.com"))

	_, err = envparse.MailAddress("not an address")
	g.Expect(err).To(HaveOccurred())
}
