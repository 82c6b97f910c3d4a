package handlers

import (
	"context"
	"net/http"

	"github.com/distr-sh/recoverd/internal/buildconfig"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Version string `json:"version"`
}

// HealthHandler reports whether the server and, if pinger is not nil, its
// database are reachable.
func HealthHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				internalctx.GetLogger(ctx).Warn("health check failed", zap.Error(err))
				RespondError(w, http.StatusServiceUnavailable, "The database is not reachable")
				return
			}
		}
		RespondSuccess(w, http.StatusOK, "OK", healthStatus{Version: buildconfig.Version()})
	}
}
