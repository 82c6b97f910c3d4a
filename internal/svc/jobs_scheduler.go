package svc

import (
	"github.com/distr-sh/recoverd/internal/cleanup"
	"github.com/distr-sh/recoverd/internal/db/queryable"
	"github.com/distr-sh/recoverd/internal/env"
	"github.com/distr-sh/recoverd/internal/jobs"
)

func (r *Registry) createJobsScheduler() (*jobs.Scheduler, error) {
	var dbPool queryable.Queryable
	if r.dbPool != nil {
		dbPool = r.dbPool
	}
	scheduler, err := jobs.NewScheduler(r.logger, dbPool, r.tracerProvider)
	if err != nil {
		return nil, err
	}

	if cron := env.CleanupAuthenticationTokenCron(); cron != nil {
		err = scheduler.RegisterCronJob(
			*cron,
			jobs.NewJob(
				"AuthenticationTokenCleanup",
				cleanup.RunAuthenticationTokenCleanup(r.store),
				env.CleanupAuthenticationTokenTimeout(),
			),
		)
		if err != nil {
			return nil, err
		}
	}

	return scheduler, nil
}
