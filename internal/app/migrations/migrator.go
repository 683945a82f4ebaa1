package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var embedded embed.FS

const migrationsDir = "sql"

// Files exposes the embedded migration scripts rooted at the scripts directory
func Files() (fs.FS, error) {
	return fs.Sub(embedded, migrationsDir)
}

// Migrator applies the embedded schema migrations
type Migrator struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(pool *pgxpool.Pool, log zerolog.Logger) *Migrator {
	return &Migrator{
		pool: pool,
		log:  log,
	}
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	scripts, err := Files()
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, scripts, goose.WithDisableGlobalRegistry(true))
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		m.log.Info().
			Str("migration", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("Migration applied")
	}
	if len(results) == 0 {
		m.log.Info().Msg("Database schema is up to date")
	}

	return nil
}
