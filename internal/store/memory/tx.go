package memory

import (
	"context"
	"slices"
	"sync"
)

type txKey struct{}

type tx struct {
	mu        sync.Mutex
	rollbacks []func()
}

// RunTx runs f and undoes the writes f made through the store if f fails.
// Unlike a database transaction it does not isolate f from concurrent callers.
func (s *Store) RunTx(ctx context.Context, f func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*tx); ok {
		return f(ctx)
	}
	t := &tx{}
	if err := f(context.WithValue(ctx, txKey{}, t)); err != nil {
		t.mu.Lock()
		rollbacks := slices.Clone(t.rollbacks)
		t.mu.Unlock()
		for _, rollback := range slices.Backward(rollbacks) {
			rollback()
		}
		return err
	}
	return nil
}

func onRollback(ctx context.Context, f func()) {
	if t, ok := ctx.Value(txKey{}).(*tx); ok {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.rollbacks = append(t.rollbacks, f)
	}
}
