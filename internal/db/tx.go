package db

import (
	"context"

	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/jackc/pgx/v5"
)

// RunTx runs f inside a transaction. Every db function called with the ctx
// passed to f takes part in the transaction. Nested calls use savepoints.
func RunTx(ctx context.Context, f func(ctx context.Context) error) error {
	db := internalctx.GetDb(ctx)
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return f(internalctx.WithDb(ctx, tx))
	})
}
