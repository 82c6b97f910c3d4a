package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/distr-sh/recoverd/internal/apierrors"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/distr-sh/recoverd/internal/util"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	authenticationTokenOutputExpr = `
		t.id, t.created_at, t.account_id, t.token, t.kind, t.active, t.expires_at, t.consumed_at `

	// usableAuthenticationTokenCondition restricts t to the active, unexpired
	// token matching secret, account and kind that is also the latest token of
	// that kind issued for the account.
	usableAuthenticationTokenCondition = `
		t.token = @token
		AND t.account_id = @accountId
		AND t.kind = @kind
		AND t.active
		AND (t.expires_at IS NULL OR t.expires_at > now())
		AND t.created_at = (
			SELECT max(l.created_at)
			FROM AuthenticationToken l
			WHERE l.account_id = @accountId AND l.kind = @kind
		) `
)

// CreateAuthenticationToken inserts token. The expiry is computed from the
// database clock, the same one the validity checks use. A validFor <= 0 creates
// a token that never expires.
func CreateAuthenticationToken(ctx context.Context, token *types.AuthenticationToken, validFor time.Duration) error {
	db := internalctx.GetDb(ctx)
	var validForMicros *int64
	if validFor > 0 {
		validForMicros = util.PtrTo(validFor.Microseconds())
	}
	rows, err := db.Query(ctx,
		`INSERT INTO AuthenticationToken AS t (account_id, token, kind, expires_at)
		VALUES (@accountId, @token, @kind, now() + @validForMicros::bigint * interval '1 microsecond')
		RETURNING`+authenticationTokenOutputExpr,
		pgx.NamedArgs{
			"accountId":      token.AccountID,
			"token":          token.Token,
			"kind":           token.Kind,
			"validForMicros": validForMicros,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to insert AuthenticationToken: %w", err)
	}
	if result, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[types.AuthenticationToken]); err != nil {
		if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: %w", apierrors.ErrInvalidAccount, err)
		}
		return fmt.Errorf("failed to collect AuthenticationToken: %w", err)
	} else {
		*token = result
		return nil
	}
}

func IsAuthenticationTokenValid(
	ctx context.Context,
	secret string,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
) (bool, error) {
	db := internalctx.GetDb(ctx)
	var valid bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM AuthenticationToken t
			WHERE`+usableAuthenticationTokenCondition+`
		)`,
		pgx.NamedArgs{
			"token":     secret,
			"accountId": accountID,
			"kind":      kind,
		},
	).Scan(&valid)
	if err != nil {
		return false, fmt.Errorf("failed to check AuthenticationToken: %w", err)
	}
	return valid, nil
}

// ConsumeAuthenticationToken deactivates the token in a single statement.
// Concurrent callers are serialized by the row lock and only one of them sees
// the token as active, all others get apierrors.ErrTokenNotFound.
func ConsumeAuthenticationToken(
	ctx context.Context,
	secret string,
	accountID uuid.UUID,
	kind types.AuthenticationTokenKind,
) error {
	db := internalctx.GetDb(ctx)
	cmd, err := db.Exec(ctx,
		`UPDATE AuthenticationToken t
		SET active = false, consumed_at = now()
		WHERE`+usableAuthenticationTokenCondition,
		pgx.NamedArgs{
			"token":     secret,
			"accountId": accountID,
			"kind":      kind,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to consume AuthenticationToken: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apierrors.ErrTokenNotFound
	}
	return nil
}

func GetAuthenticationTokensByAccountID(ctx context.Context, accountID uuid.UUID) ([]types.AuthenticationToken, error) {
	db := internalctx.GetDb(ctx)
	rows, err := db.Query(ctx,
		`SELECT`+authenticationTokenOutputExpr+`
		FROM AuthenticationToken t
		WHERE t.account_id = @accountId
		ORDER BY t.created_at DESC`,
		pgx.NamedArgs{"accountId": accountID},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query AuthenticationToken: %w", err)
	}
	tokens, err := pgx.CollectRows(rows, pgx.RowToStructByName[types.AuthenticationToken])
	if err != nil {
		return nil, fmt.Errorf("failed to collect AuthenticationToken: %w", err)
	}
	return tokens, nil
}

// DeactivateExpiredAuthenticationTokens flips the active flag of expired tokens.
// Rows are kept for auditing.
func DeactivateExpiredAuthenticationTokens(ctx context.Context) (int64, error) {
	db := internalctx.GetDb(ctx)
	if cmd, err := db.Exec(ctx,
		`UPDATE AuthenticationToken
		SET active = false
		WHERE active AND expires_at IS NOT NULL AND expires_at <= now()`,
	); err != nil {
		return 0, fmt.Errorf("failed to deactivate expired AuthenticationToken: %w", err)
	} else {
		return cmd.RowsAffected(), nil
	}
}
