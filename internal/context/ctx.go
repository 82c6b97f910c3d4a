package context

import (
	"context"

	"github.com/distr-sh/recoverd/internal/db/queryable"
	"go.uber.org/zap"
)

type contextKey int

const (
	ctxKeyDb contextKey = iota
	ctxKeyLogger
	ctxKeyIPAddress
	ctxKeyRequestID
)

func GetDb(ctx context.Context) queryable.Queryable {
	if db, ok := ctx.Value(ctxKeyDb).(queryable.Queryable); ok && db != nil {
		return db
	}
	panic("db not contained in context")
}

func HasDb(ctx context.Context) bool {
	db, ok := ctx.Value(ctxKeyDb).(queryable.Queryable)
	return ok && db != nil
}

func WithDb(ctx context.Context, db queryable.Queryable) context.Context {
	return context.WithValue(ctx, ctxKeyDb, db)
}

// GetLogger returns a no-op logger if ctx carries none.
func GetLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}
