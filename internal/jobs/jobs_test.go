package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	internalctx "github.com/distr-sh/recoverd/internal/context"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func TestRunner_Run(t *testing.T) {
	g := NewWithT(t)
	runner := NewRunner(zap.NewNop(), nil, noop.NewTracerProvider())

	var hadDeadline, hadDb bool
	err := runner.Run(context.Background(), NewJob("test", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		hadDb = internalctx.HasDb(ctx)
		return nil
	}, time.Minute))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(hadDeadline).To(BeTrue())
	g.Expect(hadDb).To(BeFalse())
}

func TestRunner_RunReturnsJobError(t *testing.T) {
	g := NewWithT(t)
	runner := NewRunner(zap.NewNop(), nil, noop.NewTracerProvider())
	jobErr := errors.New("failed")

	err := runner.Run(context.Background(), NewJob("test", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		g.Expect(hasDeadline).To(BeFalse())
		return jobErr
	}, 0))
	g.Expect(err).To(MatchError(jobErr))
}

func TestScheduler_RegisterCronJob(t *testing.T) {
	g := NewWithT(t)
	scheduler, err := NewScheduler(zap.NewNop(), nil, noop.NewTracerProvider())
	g.Expect(err).NotTo(HaveOccurred())

	job := NewJob("noop", func(ctx context.Context) error { return nil }, 0)
	g.Expect(scheduler.RegisterCronJob("*/5 * * * *", job)).To(Succeed())
	g.Expect(scheduler.RegisterCronJob("not a cron", job)).NotTo(Succeed())
	g.Expect(scheduler.JobCount()).To(Equal(1))

	scheduler.Start()
	g.Expect(scheduler.Shutdown()).To(Succeed())
}
