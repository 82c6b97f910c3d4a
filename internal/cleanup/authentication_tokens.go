package cleanup

import (
	"context"

	internalctx "github.com/distr-sh/recoverd/internal/context"
	"go.uber.org/zap"
)

type TokenSweeper interface {
	DeactivateExpiredTokens(ctx context.Context) (int64, error)
}

// RunAuthenticationTokenCleanup returns a job function that deactivates all
// expired authentication tokens. Expired tokens are already rejected on use,
// this only keeps the active flag accurate.
func RunAuthenticationTokenCleanup(sweeper TokenSweeper) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := internalctx.GetLogger(ctx)
		if count, err := sweeper.DeactivateExpiredTokens(ctx); err != nil {
			return err
		} else {
			log.Info("AuthenticationToken cleanup finished", zap.Int64("deactivated", count))
			return nil
		}
	}
}
