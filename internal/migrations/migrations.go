package migrations

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var fs embed.FS

func Up(databaseUrl string, log *zap.Logger) error {
	m, err := newInstance(databaseUrl, log)
	if err != nil {
		return err
	}
	defer closeInstance(m, log)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("database migrations applied")
	return nil
}

func Down(databaseUrl string, log *zap.Logger) error {
	m, err := newInstance(databaseUrl, log)
	if err != nil {
		return err
	}
	defer closeInstance(m, log)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func newInstance(databaseUrl string, log *zap.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(fs, "sql")
	if err != nil {
		return nil, err
	}
	migrateUrl, err := pgx5Url(databaseUrl)
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, migrateUrl)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: log.Sugar()}
	return m, nil
}

func closeInstance(m *migrate.Migrate, log *zap.Logger) {
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		log.Warn("could not close migrate instance", zap.NamedError("sourceError", sourceErr), zap.NamedError("dbError", dbErr))
	}
}

// pgx5Url rewrites a postgres connection string to the scheme registered by
// the golang-migrate pgx/v5 driver.
func pgx5Url(databaseUrl string) (string, error) {
	parsed, err := url.Parse(databaseUrl)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	switch parsed.Scheme {
	case "postgres", "postgresql", "pgx5":
		parsed.Scheme = "pgx5"
		return parsed.String(), nil
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", parsed.Scheme)
	}
}

type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Infof(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
