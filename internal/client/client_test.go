package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/distr-sh/recoverd/internal/client"
	"github.com/distr-sh/recoverd/internal/httpstatus"
	"github.com/distr-sh/recoverd/internal/mail"
	"github.com/distr-sh/recoverd/internal/pgpkey"
	"github.com/distr-sh/recoverd/internal/pgpkey/pgpkeytest"
	"github.com/distr-sh/recoverd/internal/recovery"
	"github.com/distr-sh/recoverd/internal/routing"
	"github.com/distr-sh/recoverd/internal/store/memory"
	"github.com/distr-sh/recoverd/internal/types"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

type capturingMailer struct {
	mu   sync.Mutex
	sent []mail.Mail
}

func (m *capturingMailer) Send(ctx context.Context, mail mail.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

func TestRecoveryRoundTrip(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	store := memory.New()
	account := types.Account{Username: "ada@passbolt.com", Active: true}
	g.Expect(store.CreateAccount(ctx, &account)).To(Succeed())
	mailer := &capturingMailer{}
	service := recovery.NewService(store, pgpkey.NewParser(), mailer, recovery.Config{
		Host:               "https://recoverd.example.com",
		TokenValidDuration: time.Hour,
	})
	server := httptest.NewServer(routing.NewRouter(routing.Options{
		Logger:    zap.NewNop(),
		Service:   service,
		RateLimit: 100,
	}))
	defer server.Close()

	c, err := client.New(server.URL, client.WithHTTPClient(server.Client()))
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(c.RequestRecovery(ctx, "ada@passbolt.com")).To(Succeed())
	tokens, err := store.GetTokens(ctx, account.ID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tokens).To(HaveLen(1))
	g.Expect(mailer.sent).To(HaveLen(1))
	token := tokens[0].Token

	status, err := c.CheckToken(ctx, account.ID.String(), token)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(status.Valid).To(BeTrue())
	g.Expect(status.Username).To(Equal("ada@passbolt.com"))

	key := pgpkeytest.ArmoredPublicKey(t, "Ada Lovelace", "ada@passbolt.com")
	descriptor, err := c.CompleteRecovery(ctx, account.ID.String(), token, key)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(descriptor.UID).To(Equal("Ada Lovelace <ada@passbolt.com>"))

	_, err = c.CompleteRecovery(ctx, account.ID.String(), token, key)
	var statusErr *httpstatus.StatusError
	g.Expect(errors.As(err, &statusErr)).To(BeTrue())
	g.Expect(statusErr.StatusCode).To(Equal(http.StatusBadRequest))
	g.Expect(statusErr.Message).To(Equal("The token is invalid or has expired"))

	_, err = c.CheckToken(ctx, "invalid-id", token)
	g.Expect(err).To(MatchError(httpstatus.ErrHttpStatus))
}
