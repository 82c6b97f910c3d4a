package db_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/distr-sh/recoverd/internal/apierrors"
	"github.com/distr-sh/recoverd/internal/db"
	"github.com/distr-sh/recoverd/internal/migrations"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

// newStore connects to the database named by DATABASE_URL and applies the
// migrations. Tests using it are skipped when no database is configured.
func newStore(t *testing.T) (*db.Store, *pgxpool.Pool) {
	t.Helper()
	databaseUrl := os.Getenv("DATABASE_URL")
	if databaseUrl == "" {
		t.Skip("DATABASE_URL is not set")
	}
	g := NewWithT(t)
	g.Expect(migrations.Up(databaseUrl, zap.NewNop())).To(Succeed())
	pool, err := pgxpool.New(context.Background(), databaseUrl)
	g.Expect(err).NotTo(HaveOccurred())
	t.Cleanup(pool.Close)
	return db.NewStore(pool), pool
}

func createAccount(t *testing.T, store *db.Store) *types.Account {
	t.Helper()
	account := types.Account{Username: uuid.NewString() + "@example.com", Active: true}
	NewWithT(t).Expect(store.CreateAccount(context.Background(), &account)).To(Succeed())
	return &account
}

func TestConsumeToken_Concurrent(t *testing.T) {
	g := NewWithT(t)
	store, _ := newStore(t)
	ctx := context.Background()
	account := createAccount(t, store)
	token, err := store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Hour)
	g.Expect(err).NotTo(HaveOccurred())

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.ConsumeToken(ctx, token.Token, account.ID, types.AuthenticationTokenKindRecovery)
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded int
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			g.Expect(err).To(MatchError(apierrors.ErrTokenNotFound))
		}
	}
	g.Expect(succeeded).To(Equal(1))

	tokens, err := store.GetTokens(ctx, account.ID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tokens).To(HaveLen(1))
	g.Expect(tokens[0].Active).To(BeFalse())
	g.Expect(tokens[0].ConsumedAt).NotTo(BeNil())
}

func TestConsumeToken_OnlyLatestToken(t *testing.T) {
	g := NewWithT(t)
	store, _ := newStore(t)
	ctx := context.Background()
	account := createAccount(t, store)
	older, err := store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Hour)
	g.Expect(err).NotTo(HaveOccurred())
	latest, err := store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Hour)
	g.Expect(err).NotTo(HaveOccurred())

	valid, err := store.IsTokenValid(ctx, older.Token, account.ID, types.AuthenticationTokenKindRecovery)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(valid).To(BeFalse())
	g.Expect(store.ConsumeToken(ctx, older.Token, account.ID, types.AuthenticationTokenKindRecovery)).
		To(MatchError(apierrors.ErrTokenNotFound))

	valid, err = store.IsTokenValid(ctx, latest.Token, account.ID, types.AuthenticationTokenKindRecovery)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(valid).To(BeTrue())
	g.Expect(store.ConsumeToken(ctx, latest.Token, account.ID, types.AuthenticationTokenKindRecovery)).To(Succeed())

	valid, err = store.IsTokenValid(ctx, latest.Token, account.ID, types.AuthenticationTokenKindRecovery)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(valid).To(BeFalse())
}

func TestConsumeToken_RolledBackWithTx(t *testing.T) {
	g := NewWithT(t)
	store, _ := newStore(t)
	ctx := context.Background()
	account := createAccount(t, store)
	token, err := store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Hour)
	g.Expect(err).NotTo(HaveOccurred())

	bindErr := errors.New("bind failed")
	err = store.RunTx(ctx, func(ctx context.Context) error {
		if err := store.ConsumeToken(ctx, token.Token, account.ID, types.AuthenticationTokenKindRecovery); err != nil {
			return err
		}
		return bindErr
	})
	g.Expect(err).To(MatchError(bindErr))

	valid, err := store.IsTokenValid(ctx, token.Token, account.ID, types.AuthenticationTokenKindRecovery)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(valid).To(BeTrue())
}

func TestGenerateToken_ExpiresByDatabaseClock(t *testing.T) {
	g := NewWithT(t)
	store, pool := newStore(t)
	ctx := context.Background()
	account := createAccount(t, store)

	var dbNow time.Time
	g.Expect(pool.QueryRow(ctx, "SELECT now()").Scan(&dbNow)).To(Succeed())
	token, err := store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Hour)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(token.ExpiresAt).NotTo(BeNil())
	g.Expect(*token.ExpiresAt).To(BeTemporally("~", dbNow.Add(time.Hour), 5*time.Second))

	token, err = store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(token.ExpiresAt).To(BeNil())

	token, err = store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Millisecond)
	g.Expect(err).NotTo(HaveOccurred())
	time.Sleep(20 * time.Millisecond)
	valid, err := store.IsTokenValid(ctx, token.Token, account.ID, types.AuthenticationTokenKindRecovery)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(valid).To(BeFalse())
}

func TestDeleteAccount_RestrictedWhileTokensExist(t *testing.T) {
	g := NewWithT(t)
	store, pool := newStore(t)
	ctx := context.Background()
	account := createAccount(t, store)
	_, err := store.GenerateToken(ctx, account.ID, types.AuthenticationTokenKindRecovery, time.Hour)
	g.Expect(err).NotTo(HaveOccurred())

	_, err = pool.Exec(ctx, "DELETE FROM Account WHERE id = $1", account.ID)
	pgErr := new(pgconn.PgError)
	g.Expect(errors.As(err, &pgErr)).To(BeTrue())
	g.Expect(pgErr.Code).To(Equal(pgerrcode.ForeignKeyViolation))

	tokens, err := store.GetTokens(ctx, account.ID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tokens).To(HaveLen(1))
}
