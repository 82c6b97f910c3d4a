package jobs

import (
	"context"
	"time"

	"github.com/distr-sh/recoverd/internal/buildconfig"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/db/queryable"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerScope = "github.com/distr-sh/recoverd/internal/jobs"
)

type runner struct {
	db     queryable.Queryable
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRunner creates a runner. db may be nil when the server runs without a
// database.
func NewRunner(logger *zap.Logger, db queryable.Queryable, traceProvider trace.TracerProvider) *runner {
	return &runner{
		db:     db,
		logger: logger,
		tracer: traceProvider.Tracer(tracerScope, trace.WithInstrumentationVersion(buildconfig.Version())),
	}
}

func (runner *runner) RunJobFunc(job Job) func(ctx context.Context) {
	return func(ctx context.Context) { _ = runner.Run(ctx, job) }
}

func (runner *runner) Run(ctx context.Context, job Job) error {
	log := runner.logger.With(zap.String("job", job.name))

	ctx = runner.jobCtx(ctx, log)
	ctx, span := runner.tracer.Start(ctx, job.name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.String("job.name", job.name))

	startedAt := time.Now()
	log.Info("job started")

	if job.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.timeout)
		defer cancel()
	}

	err := job.Run(ctx)
	elapsed := time.Since(startedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job error")
		log.Warn("job failed", zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		span.SetStatus(codes.Ok, "job finished")
		log.Info("job finished", zap.Duration("elapsed", elapsed))
	}
	return err
}

func (runner *runner) jobCtx(ctx context.Context, log *zap.Logger) context.Context {
	ctx = internalctx.WithLogger(ctx, log)
	if runner.db != nil {
		ctx = internalctx.WithDb(ctx, runner.db)
	}
	return ctx
}
