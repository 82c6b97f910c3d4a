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

const accountOutputExpr = ` a.id, a.created_at, a.username, a.active `

func CreateAccount(ctx context.Context, account *types.Account) error {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`INSERT INTO Account AS a (username, active)
		VALUES (@username, @active)
		RETURNING`+accountOutputExpr,
		pgx.NamedArgs{
			"username": account.Username,
			"active":   account.Active,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to insert Account: %w", err)
	}
	if result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.Account]); err != nil {
		if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %w", apierrors.ErrAlreadyExists, err)
		}
		return fmt.Errorf("failed to collect Account: %w", err)
	} else {
		*account = result
		return nil
	}
}

func GetAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		"SELECT"+accountOutputExpr+"FROM Account a WHERE a.id = @id",
		pgx.NamedArgs{"id": id},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query Account: %w", err)
	}
	return collectAccount(rows)
}

// GetAccountByUsername matches the username case-insensitively.
func GetAccountByUsername(ctx context.Context, username string) (*types.Account, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		"SELECT"+accountOutputExpr+"FROM Account a WHERE lower(a.username) = lower(@username)",
		pgx.NamedArgs{"username": username},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query Account: %w", err)
	}
	return collectAccount(rows)
}

func collectAccount(rows pgx.Rows) (*types.Account, error) {
	if result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.Account]); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to collect Account: %w", err)
	} else {
		return &result, nil
	}
}
