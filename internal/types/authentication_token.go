package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type AuthenticationTokenKind string

const (
	AuthenticationTokenKindRecovery AuthenticationTokenKind = "recovery"
)

func ParseAuthenticationTokenKind(value string) (AuthenticationTokenKind, error) {
	switch value {
	case string(AuthenticationTokenKindRecovery):
		return AuthenticationTokenKindRecovery, nil
	default:
		return "", errors.New("invalid authentication token kind")
	}
}

type AuthenticationToken struct {
	ID         uuid.UUID               `db:"id"`
	CreatedAt  time.Time               `db:"created_at"`
	AccountID  uuid.UUID               `db:"account_id"`
	Token      string                  `db:"token"`
	Kind       AuthenticationTokenKind `db:"kind"`
	Active     bool                    `db:"active"`
	ExpiresAt  *time.Time              `db:"expires_at"`
	ConsumedAt *time.Time              `db:"consumed_at"`
}

// Usable reports whether the token can still be consumed at the given time.
// It does not check whether a newer token has superseded this one.
func (t AuthenticationToken) Usable(now time.Time) bool {
	return t.Active && (t.ExpiresAt == nil || now.Before(*t.ExpiresAt))
}
