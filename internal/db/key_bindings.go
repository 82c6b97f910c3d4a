package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/distr-sh/recoverd/internal/apierrors"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const keyBindingOutputExpr = `
	k.account_id, k.created_at, k.updated_at, k.fingerprint, k.key_id, k.type, k.bits, k.uid, k.armored_key `

// UpsertKeyBinding replaces the key currently bound to the account.
func UpsertKeyBinding(ctx context.Context, accountID uuid.UUID, key types.KeyDescriptor) (*types.KeyBinding, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`INSERT INTO KeyBinding AS k (account_id, fingerprint, key_id, type, bits, uid, armored_key)
		VALUES (@accountId, @fingerprint, @keyId, @type, @bits, @uid, @armoredKey)
		ON CONFLICT (account_id) DO UPDATE SET
			fingerprint = EXCLUDED.fingerprint,
			key_id = EXCLUDED.key_id,
			type = EXCLUDED.type,
			bits = EXCLUDED.bits,
			uid = EXCLUDED.uid,
			armored_key = EXCLUDED.armored_key,
			updated_at = now()
		RETURNING`+keyBindingOutputExpr,
		pgx.NamedArgs{
			"accountId":   accountID,
			"fingerprint": key.Fingerprint,
			"keyId":       key.KeyID,
			"type":        key.Type,
			"bits":        key.Bits,
			"uid":         key.UID,
			"armoredKey":  key.Key,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert KeyBinding: %w", err)
	}
	if result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.KeyBinding]); err != nil {
		if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("%w: %w", apierrors.ErrInvalidAccount, err)
		}
		return nil, fmt.Errorf("failed to collect KeyBinding: %w", err)
	} else {
		return &result, nil
	}
}

func GetKeyBindingByAccountID(ctx context.Context, accountID uuid.UUID) (*types.KeyBinding, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		"SELECT"+keyBindingOutputExpr+"FROM KeyBinding k WHERE k.account_id = @accountId",
		pgx.NamedArgs{"accountId": accountID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query KeyBinding: %w", err)
	}
	if result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.KeyBinding]); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to collect KeyBinding: %w", err)
	} else {
		return &result, nil
	}
}
