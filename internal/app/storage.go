// Package app wires the three services together: configuration,
// storage, the broker and the HTTP edges.
package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ticketing/internal/config"
	"ticketing/internal/repository"
)

// openPostgres connects, pings and applies the schema. Every service
// shares the same database, each touching only its own tables.
func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required with postgres storage")
	}

	db, err := sqlx.Connect("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := repository.InitializeDBSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
