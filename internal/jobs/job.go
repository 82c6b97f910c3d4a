package jobs

import (
	"context"
	"time"
)

type JobFunc func(ctx context.Context) error

type Job struct {
	name    string
	fn      JobFunc
	timeout time.Duration
}

// NewJob creates a job. A timeout of 0 lets the job run without deadline.
func NewJob(name string, fn JobFunc, timeout time.Duration) Job {
	return Job{name: name, fn: fn, timeout: timeout}
}

func (job Job) Name() string { return job.name }

func (job Job) Run(ctx context.Context) error {
	return job.fn(ctx)
}
