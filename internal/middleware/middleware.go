package middleware

import (
	"net/http"
	"time"

	internalctx "github.com/distr-sh/recoverd/internal/context"
	sentryhttp "github.com/getsentry/sentry-go/http"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Sentry attaches a hub to every request context and reports panics.
var Sentry = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle

// LoggerCtxMiddleware stores a request scoped logger, the request id and the
// client address in the request context. It expects chi's RequestID and RealIP
// middlewares to run first.
func LoggerCtxMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := chimiddleware.GetReqID(ctx)
			ctx = internalctx.WithRequestID(ctx, requestID)
			ctx = internalctx.WithRequestIPAddress(ctx, r.RemoteAddr)
			ctx = internalctx.WithLogger(ctx, logger.With(zap.String("requestId", requestID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		internalctx.GetLogger(r.Context()).Info("handling request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("remoteAddress", internalctx.GetRequestIPAddress(r.Context())),
			zap.Duration("took", time.Since(start)))
	})
}
