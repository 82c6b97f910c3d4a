package main

import (
	"context"
	"errors"

	"github.com/distr-sh/recoverd/internal/apierrors"
	"github.com/distr-sh/recoverd/internal/env"
	"github.com/distr-sh/recoverd/internal/svc"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func withRegistry(cmd *cobra.Command, f func(registry *svc.Registry) error) (err error) {
	registry, err := svc.New(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, registry.Shutdown(context.Background())) }()
	if env.DatabaseUrl() == "" {
		registry.GetLogger().Warn("changes to the in-memory store are lost when the command exits")
	}
	return f(registry)
}

func isNotFound(err error) bool {
	return errors.Is(err, apierrors.ErrNotFound)
}
