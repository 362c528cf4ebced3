package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/topdown/internal/config"
)

// OpenJournal connects to PostgreSQL, applies migrations and returns a journal
// for encounterID. The caller runs the journal and closes the DB after it stops.
func OpenJournal(ctx context.Context, cfg config.DatabaseConfig, encounterID uuid.UUID) (*DB, *Journal, error) {
	database, err := New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrationsPool(ctx, database.Pool()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied", "host", cfg.Host, "dbname", cfg.DBName)

	repo := NewCombatLogRepository(database.Pool())
	journal := NewJournal(repo, encounterID, cfg.BufferSize, cfg.BatchSize, cfg.FlushInterval)
	return database, journal, nil
}
