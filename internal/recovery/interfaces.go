package recovery

import (
	"context"
	"time"

	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
)

type KeyParser interface {
	Parse(blob string) (types.KeyDescriptor, error)
}

type TokenStore interface {
	GenerateToken(
		ctx context.Context,
		accountID uuid.UUID,
		kind types.AuthenticationTokenKind,
		validFor time.Duration,
	) (*types.AuthenticationToken, error)
	// IsTokenValid only returns an error if the store itself fails.
	IsTokenValid(ctx context.Context, secret string, accountID uuid.UUID, kind types.AuthenticationTokenKind) (bool, error)
	// ConsumeToken atomically checks and deactivates the token. It returns
	// apierrors.ErrTokenNotFound if no usable token matches.
	ConsumeToken(ctx context.Context, secret string, accountID uuid.UUID, kind types.AuthenticationTokenKind) error
}

type AccountDirectory interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error)
	FindAccountByUsername(ctx context.Context, username string) (*types.Account, error)
}

type KeyBindingStore interface {
	BindKey(ctx context.Context, accountID uuid.UUID, key types.KeyDescriptor) (*types.KeyBinding, error)
}

type Transactor interface {
	RunTx(ctx context.Context, f func(ctx context.Context) error) error
}

// Store is implemented by db.Store and memory.Store.
type Store interface {
	TokenStore
	AccountDirectory
	KeyBindingStore
	Transactor
}
