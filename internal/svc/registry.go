package svc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/distr-sh/recoverd/internal/buildconfig"
	"github.com/distr-sh/recoverd/internal/cleanup"
	"github.com/distr-sh/recoverd/internal/db"
	"github.com/distr-sh/recoverd/internal/env"
	"github.com/distr-sh/recoverd/internal/jobs"
	"github.com/distr-sh/recoverd/internal/mail"
	"github.com/distr-sh/recoverd/internal/migrations"
	"github.com/distr-sh/recoverd/internal/pgpkey"
	"github.com/distr-sh/recoverd/internal/recovery"
	"github.com/distr-sh/recoverd/internal/store/memory"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/exaring/otelpgx"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Store is implemented by db.Store and memory.Store.
type Store interface {
	recovery.Store
	cleanup.TokenSweeper
	CreateAccount(ctx context.Context, account *types.Account) error
	GetKeyBinding(ctx context.Context, accountID uuid.UUID) (*types.KeyBinding, error)
	GetTokens(ctx context.Context, accountID uuid.UUID) ([]types.AuthenticationToken, error)
}

type Registry struct {
	logger          *zap.Logger
	dbPool          *pgxpool.Pool
	store           Store
	mailer          mail.Mailer
	tracerProvider  trace.TracerProvider
	tracerShutdown  func(context.Context) error
	recoveryService *recovery.Service
	jobsScheduler   *jobs.Scheduler
}

type registryOptions struct {
	execDbMigrations bool
	enableJobs       bool
}

type RegistryOption func(*registryOptions)

func ExecDbMigrations(exec bool) RegistryOption {
	return func(o *registryOptions) { o.execDbMigrations = exec }
}

func EnableJobs(enable bool) RegistryOption {
	return func(o *registryOptions) { o.enableJobs = enable }
}

func New(ctx context.Context, opts ...RegistryOption) (*Registry, error) {
	options := registryOptions{execDbMigrations: env.DatabaseAutoMigrate()}
	for _, opt := range opts {
		opt(&options)
	}

	var reg Registry
	reg.logger = createLogger()

	if err := reg.initSentry(); err != nil {
		return nil, err
	}

	if err := reg.initTracing(ctx); err != nil {
		return nil, err
	}

	if url := env.DatabaseUrl(); url != "" {
		if options.execDbMigrations {
			if err := migrations.Up(url, reg.logger); err != nil {
				return nil, err
			}
		}
		pool, err := reg.createDBPool(ctx, url)
		if err != nil {
			return nil, err
		}
		reg.dbPool = pool
		reg.store = db.NewStore(pool)
	} else {
		reg.logger.Warn("DATABASE_URL is not set, using in-memory store")
		reg.store = memory.New()
	}

	if mailer, err := reg.createMailer(); err != nil {
		return nil, err
	} else {
		reg.mailer = mailer
	}

	reg.recoveryService = recovery.NewService(
		reg.store,
		pgpkey.NewParser(),
		reg.mailer,
		recovery.Config{Host: env.Host(), TokenValidDuration: env.RecoveryTokenValidDuration()},
		recovery.WithTracerProvider(reg.tracerProvider),
	)

	if options.enableJobs {
		if scheduler, err := reg.createJobsScheduler(); err != nil {
			return nil, err
		} else {
			reg.jobsScheduler = scheduler
		}
	}

	return &reg, nil
}

func (r *Registry) Shutdown(ctx context.Context) error {
	r.logger.Warn("shutting down")
	var err error
	if r.jobsScheduler != nil {
		err = multierr.Append(err, r.jobsScheduler.Shutdown())
	}
	if r.dbPool != nil {
		r.logger.Info("closing db pool")
		r.dbPool.Close()
	}
	if r.tracerShutdown != nil {
		err = multierr.Append(err, r.tracerShutdown(ctx))
	}
	sentry.Flush(5 * time.Second)
	_ = r.logger.Sync()
	return err
}

func (r *Registry) GetLogger() *zap.Logger {
	return r.logger
}

func (r *Registry) GetStore() Store {
	return r.store
}

// GetDbPool returns nil when the service runs with the in-memory store.
func (r *Registry) GetDbPool() *pgxpool.Pool {
	return r.dbPool
}

func (r *Registry) GetTracerProvider() trace.TracerProvider {
	return r.tracerProvider
}

func (r *Registry) GetRecoveryService() *recovery.Service {
	return r.recoveryService
}

// GetJobsScheduler returns nil unless the registry was created with EnableJobs.
func (r *Registry) GetJobsScheduler() *jobs.Scheduler {
	return r.jobsScheduler
}

func createLogger() *zap.Logger {
	var config zap.Config
	if env.DevelopmentLogging() {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = zap.NewAtomicLevelAt(env.LogLevel())
	return zap.Must(config.Build())
}

func (r *Registry) initSentry() error {
	if env.SentryDSN() == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         env.SentryDSN(),
		Debug:       env.SentryDebug(),
		Environment: env.SentryEnvironment(),
		Release:     buildconfig.Version(),
	})
	if err != nil {
		return fmt.Errorf("sentry init failed: %w", err)
	}
	return nil
}

func (r *Registry) initTracing(ctx context.Context) error {
	if !env.OtelExporterOtlpEnabled() {
		r.tracerProvider = noop.NewTracerProvider()
		return nil
	}
	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return fmt.Errorf("could not create otlp exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "recoverd"),
			attribute.String("service.version", buildconfig.Version()),
		)),
	)
	otel.SetTracerProvider(provider)
	r.tracerProvider = provider
	r.tracerShutdown = provider.Shutdown
	return nil
}

func (r *Registry) createDBPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if maxConns := env.DatabaseMaxConns(); maxConns != nil {
		config.MaxConns = int32(*maxConns)
	}
	config.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithTracerProvider(r.tracerProvider))
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("cannot set up db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	r.logger.Info("db pool connected", zap.Int32("maxConns", config.MaxConns))
	return pool, nil
}

func (r *Registry) createMailer() (mail.Mailer, error) {
	config := env.GetMailerConfig()
	switch config.Type {
	case env.MailerTypeSMTP:
		return mail.NewSMTP(mail.SMTPConfig{
			Host:        config.SmtpConfig.Host,
			Port:        config.SmtpConfig.Port,
			Username:    config.SmtpConfig.Username,
			Password:    config.SmtpConfig.Password,
			ImplicitTLS: config.SmtpConfig.ImplicitTLS,
		}, config.FromAddress, r.logger)
	case env.MailerTypeUnspecified:
		r.logger.Warn("MAILER_TYPE is not set, recovery mails are only logged")
		return mail.NewLog(r.logger), nil
	default:
		return nil, errors.New("invalid mailer type")
	}
}
