package routing

import (
	"net/http"

	"github.com/distr-sh/recoverd/internal/buildconfig"
	"github.com/distr-sh/recoverd/internal/handlers"
	"github.com/distr-sh/recoverd/internal/middleware"
	"github.com/distr-sh/recoverd/internal/recovery"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/oaswrap/spec/adapter/chiopenapi"
	"github.com/oaswrap/spec/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Options struct {
	Logger         *zap.Logger
	Service        *recovery.Service
	Pinger         handlers.Pinger
	RateLimit      int
	TracerProvider trace.TracerProvider
}

func NewRouter(opts Options) http.Handler {
	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.Sentry,
		middleware.LoggerCtxMiddleware(opts.Logger),
		middleware.LoggingMiddleware,
		chimiddleware.Recoverer,
	)

	r := chiopenapi.NewRouter(router,
		option.WithTitle("recoverd API"),
		option.WithVersion(buildconfig.Version()),
		option.WithDescription("Account recovery by binding a new OpenPGP public key"),
	)
	r.Get("/healthz", handlers.HealthHandler(opts.Pinger)).
		With(option.Description("Health check"))
	r.Route("/api/v1", func(r chiopenapi.Router) {
		r.Route("/recovery", handlers.RecoveryRouter(opts.Service, opts.RateLimit))
	})

	var handlerOpts []otelhttp.Option
	if opts.TracerProvider != nil {
		handlerOpts = append(handlerOpts, otelhttp.WithTracerProvider(opts.TracerProvider))
	}
	return otelhttp.NewHandler(router, "recoverd", handlerOpts...)
}
