package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventKind is the type of a journal row.
type EventKind string

const (
	EventHit   EventKind = "hit"
	EventDeath EventKind = "death"
)

// CombatEvent is one row of the combat journal.
type CombatEvent struct {
	EncounterID uuid.UUID
	Tick        uint64
	Kind        EventKind
	AttackerID  uint32 // 0 for deaths
	TargetID    uint32
	Damage      float64
	CreatedAt   time.Time
}

// CombatLogRepository stores combat events in PostgreSQL.
type CombatLogRepository struct {
	pool *pgxpool.Pool
}

// NewCombatLogRepository creates a new repository on pool.
func NewCombatLogRepository(pool *pgxpool.Pool) *CombatLogRepository {
	return &CombatLogRepository{pool: pool}
}

// InsertBatch writes events with COPY. Returns number of rows written.
func (r *CombatLogRepository) InsertBatch(ctx context.Context, events []CombatEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(events))
	for _, e := range events {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		rows = append(rows, []any{
			pgtype.UUID{Bytes: e.EncounterID, Valid: true},
			int64(e.Tick),
			string(e.Kind),
			int64(e.AttackerID),
			int64(e.TargetID),
			e.Damage,
			createdAt,
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"combat_events"},
		[]string{"encounter_id", "tick", "kind", "attacker_id", "target_id", "damage", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting %d combat events: %w", len(events), err)
	}

	slog.Debug("combat events written", "count", n)
	return n, nil
}

// ListByEncounter returns events of one encounter ordered by tick and insertion.
func (r *CombatLogRepository) ListByEncounter(ctx context.Context, encounterID uuid.UUID) ([]CombatEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT encounter_id, tick, kind, attacker_id, target_id, damage, created_at
		 FROM combat_events
		 WHERE encounter_id = $1
		 ORDER BY tick, id`,
		pgtype.UUID{Bytes: encounterID, Valid: true},
	)
	if err != nil {
		return nil, fmt.Errorf("querying combat events for encounter %s: %w", encounterID, err)
	}
	defer rows.Close()

	var events []CombatEvent
	for rows.Next() {
		var (
			id               pgtype.UUID
			tick             int64
			kind             string
			attacker, target int64
			damage           float64
			createdAt        time.Time
		)
		if err := rows.Scan(&id, &tick, &kind, &attacker, &target, &damage, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning combat event: %w", err)
		}
		events = append(events, CombatEvent{
			EncounterID: uuid.UUID(id.Bytes),
			Tick:        uint64(tick),
			Kind:        EventKind(kind),
			AttackerID:  uint32(attacker),
			TargetID:    uint32(target),
			Damage:      damage,
			CreatedAt:   createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating combat events: %w", err)
	}

	return events, nil
}

// DeathCount returns number of death events recorded for an encounter.
func (r *CombatLogRepository) DeathCount(ctx context.Context, encounterID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM combat_events WHERE encounter_id = $1 AND kind = $2`,
		pgtype.UUID{Bytes: encounterID, Valid: true}, string(EventDeath),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting deaths for encounter %s: %w", encounterID, err)
	}
	return n, nil
}
