// Package memory provides a concurrency-safe in-memory implementation of the
// account, token and key binding stores. It is used by tests and by the
// server when no DATABASE_URL is configured.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/distr-sh/recoverd/internal/apierrors"
	"github.com/distr-sh/recoverd/internal/security"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	accounts map[uuid.UUID]types.Account
	// tokens is append-only, in issuing order.
	tokens   []types.AuthenticationToken
	bindings map[uuid.UUID]types.KeyBinding
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		accounts: make(map[uuid.UUID]types.Account),
		bindings: make(map[uuid.UUID]types.KeyBinding),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateAccount(ctx context.Context, account *types.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Username, account.Username) {
			return fmt.Errorf("%w: username %v", apierrors.ErrAlreadyExists, account.Username)
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = s.now()
	s.accounts[account.ID] = *account
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[id]; ok {
		return &account, nil
	}
	return nil, apierrors.ErrNotFound
}

func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*types.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if strings.EqualFold(account.Username, username) {
			return &account, nil
		}
	}
	return nil, apierrors.ErrNotFound
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

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrInvalidAccount, accountID)
	}
	token := types.AuthenticationToken{
		ID:        uuid.New(),
		CreatedAt: s.now(),
		AccountID: accountID,
		Token:     secret,
		Kind:      kind,
		Active:    true,
	}
	if validFor > 0 {
		expiresAt := token.CreatedAt.Add(validFor)
		token.ExpiresAt = &expiresAt
	}
	s.tokens = append(s.tokens, token)
	return &token, nil
}

func (s *Store) IsTokenValid(
	ctx context.Context,
	secret string,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usableTokenIndex(secret, accountID, kind) >= 0, nil
}

func (s *Store) ConsumeToken(
	ctx context.Context,
	secret string,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.usableTokenIndex(secret, accountID, kind)
	if idx < 0 {
		return apierrors.ErrTokenNotFound
	}
	now := s.now()
	s.tokens[idx].Active = false
	s.tokens[idx].ConsumedAt = &now
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tokens[idx].Active = true
		s.tokens[idx].ConsumedAt = nil
	})
	return nil
}

// usableTokenIndex returns the index of the latest token of kind issued for
// accountID if it matches secret and is still usable, -1 otherwise.
// s.mu must be held.
func (s *Store) usableTokenIndex(secret string, accountID uuid.UUID, kind types.AuthenticationTokenKind) int {
	for i := len(s.tokens) - 1; i >= 0; i-- {
		token := s.tokens[i]
		if token.AccountID != accountID || token.Kind != kind {
			continue
		}
		if security.TokenSecretsEqual(token.Token, secret) && token.Usable(s.now()) {
			return i
		}
		return -1
	}
	return -1
}

func (s *Store) DeactivateExpiredTokens(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var count int64
	for i, token := range s.tokens {
		if token.Active && token.ExpiresAt != nil && !now.Before(*token.ExpiresAt) {
			s.tokens[i].Active = false
			count++
		}
	}
	return count, nil
}

// GetTokens returns all tokens of the account, newest first.
func (s *Store) GetTokens(ctx context.Context, accountID uuid.UUID) ([]types.AuthenticationToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []types.AuthenticationToken
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if s.tokens[i].AccountID == accountID {
			result = append(result, s.tokens[i])
		}
	}
	return result, nil
}

func (s *Store) BindKey(ctx context.Context, accountID uuid.UUID, key types.KeyDescriptor) (*types.KeyBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrInvalidAccount, accountID)
	}
	now := s.now()
	previous, hadPrevious := s.bindings[accountID]
	binding := types.KeyBinding{AccountID: accountID, CreatedAt: now, UpdatedAt: now, KeyDescriptor: key}
	if hadPrevious {
		binding.CreatedAt = previous.CreatedAt
	}
	s.bindings[accountID] = binding
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if hadPrevious {
			s.bindings[accountID] = previous
		} else {
			delete(s.bindings, accountID)
		}
	})
	return &binding, nil
}

func (s *Store) GetKeyBinding(ctx context.Context, accountID uuid.UUID) (*types.KeyBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if binding, ok := s.bindings[accountID]; ok {
		return &binding, nil
	}
	return nil, apierrors.ErrNotFound
}
