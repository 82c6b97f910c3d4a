package db

import (
	"context"
	"fmt"
	"time"

	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/db/queryable"
	"github.com/distr-sh/recoverd/internal/security"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
)

// Store exposes the db functions through the store interfaces used by the
// recovery service. A db already present in the context (e.g. a transaction
// started by RunTx) takes precedence over the one held by Store.
type Store struct {
	db queryable.Queryable
}

func NewStore(db queryable.Queryable) *Store {
	return &Store{db: db}
}

func (s *Store) withDb(ctx context.Context) context.Context {
	if internalctx.HasDb(ctx) {
		return ctx
	}
	return internalctx.WithDb(ctx, s.db)
}

func (s *Store) RunTx(ctx context.Context, f func(ctx context.Context) error) error {
	return RunTx(s.withDb(ctx), f)
}

func (s *Store) CreateAccount(ctx context.Context, account *types.Account) error {
	return CreateAccount(s.withDb(ctx), account)
}

func (s *Store) FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	return GetAccountByID(s.withDb(ctx), id)
}

func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*types.Account, error) {
	return GetAccountByUsername(s.withDb(ctx), username)
}

func (s *Store) GenerateToken(
	ctx context.Context,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
	validFor time.Duration,
) (*types.AuthenticationToken, error) {
	secret, err := security.GenerateTokenSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	token := types.AuthenticationToken{AccountID: accountID, Token: secret, Kind: kind}
	if err := CreateAuthenticationToken(s.withDb(ctx), &token, validFor); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Store) IsTokenValid(
	ctx context.Context,
	secret string,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
) (bool, error) {
	return IsAuthenticationTokenValid(s.withDb(ctx), secret, accountID, kind)
}

func (s *Store) ConsumeToken(
	ctx context.Context,
	secret string,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
) error {
	return ConsumeAuthenticationToken(s.withDb(ctx), secret, accountID, kind)
}

// GetTokens returns all tokens of the account, newest first.
func (s *Store) GetTokens(ctx context.Context, accountID uuid.UUID) ([]types.AuthenticationToken, error) {
	return GetAuthenticationTokensByAccountID(s.withDb(ctx), accountID)
}

func (s *Store) DeactivateExpiredTokens(ctx context.Context) (int64, error) {
	return DeactivateExpiredAuthenticationTokens(s.withDb(ctx))
}

func (s *Store) BindKey(ctx context.Context, accountID uuid.UUID, key types.KeyDescriptor) (*types.KeyBinding, error) {
	return UpsertKeyBinding(s.withDb(ctx), accountID, key)
}

func (s *Store) GetKeyBinding(ctx context.Context, accountID uuid.UUID) (*types.KeyBinding, error) {
	return GetKeyBindingByAccountID(s.withDb(ctx), accountID)
}
