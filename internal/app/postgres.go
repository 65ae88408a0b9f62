package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/fxpulse/config"
	"github.com/guttosm/fxpulse/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const pingTimeout = 5 * time.Second

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres opens the connection pool described by cfg.Postgres and pings
// it once so a bad DSN fails at startup rather than on the first cycle.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	dsn := cfg.Postgres.URL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.DBName,
			cfg.Postgres.SSLMode,
		)
	}

	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// postgresOpener is an indirection used by newStore; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres

// migrator applies the embedded schema; overridden in tests.
var migrator = storage.Migrate
