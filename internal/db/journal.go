package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/topdown/internal/model"
)

// drainTimeout bounds the final flush after the journal context is cancelled.
const drainTimeout = 5 * time.Second

// EventWriter persists batches of combat events.
type EventWriter interface {
	InsertBatch(ctx context.Context, events []CombatEvent) (int64, error)
}

// Journal buffers combat events from the simulation and writes them in batches.
//
// Record* never block: when the buffer is full the event is dropped and counted.
// Run flushes when a batch fills up or every flush interval, and drains the
// buffer on shutdown.
type Journal struct {
	writer        EventWriter
	encounterID   uuid.UUID
	events        chan CombatEvent
	batchSize     int
	flushInterval time.Duration

	written atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64
}

// NewJournal creates a journal for one encounter.
func NewJournal(writer EventWriter, encounterID uuid.UUID, bufferSize, batchSize int, flushInterval time.Duration) *Journal {
	return &Journal{
		writer:        writer,
		encounterID:   encounterID,
		events:        make(chan CombatEvent, max(bufferSize, 1)),
		batchSize:     max(batchSize, 1),
		flushInterval: max(flushInterval, 10*time.Millisecond),
	}
}

// RecordHit queues a landed attack.
func (j *Journal) RecordHit(tick uint64, hit model.HitEvent) {
	j.enqueue(CombatEvent{
		EncounterID: j.encounterID,
		Tick:        tick,
		Kind:        EventHit,
		AttackerID:  hit.AttackerID,
		TargetID:    hit.TargetID,
		Damage:      hit.Damage,
		CreatedAt:   time.Now(),
	})
}

// RecordDeath queues a death.
func (j *Journal) RecordDeath(tick uint64, objectID uint32) {
	j.enqueue(CombatEvent{
		EncounterID: j.encounterID,
		Tick:        tick,
		Kind:        EventDeath,
		TargetID:    objectID,
		CreatedAt:   time.Now(),
	})
}

func (j *Journal) enqueue(e CombatEvent) {
	select {
	case j.events <- e:
	default:
		if j.dropped.Add(1) == 1 {
			slog.Warn("combat journal buffer full, dropping events",
				"encounterID", j.encounterID,
				"capacity", cap(j.events))
		}
	}
}

// Run writes queued events until ctx is cancelled, then drains what is left.
// Always returns nil: write failures are logged and counted.
func (j *Journal) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.flushInterval)
	defer ticker.Stop()

	batch := make([]CombatEvent, 0, j.batchSize)

	slog.Info("combat journal started",
		"encounterID", j.encounterID,
		"batchSize", j.batchSize,
		"flushInterval", j.flushInterval)

	for {
		select {
		case <-ctx.Done():
			j.drain(batch)
			slog.Info("combat journal stopped",
				"encounterID", j.encounterID,
				"written", j.Written(),
				"dropped", j.Dropped(),
				"failed", j.Failed())
			return nil

		case e := <-j.events:
			batch = append(batch, e)
			if len(batch) >= j.batchSize {
				batch = j.flush(ctx, batch)
			}

		case <-ticker.C:
			batch = j.flush(ctx, batch)
		}
	}
}

// drain flushes the pending batch and everything still buffered.
func (j *Journal) drain(batch []CombatEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case e := <-j.events:
			batch = append(batch, e)
			if len(batch) >= j.batchSize {
				batch = j.flush(ctx, batch)
			}
		default:
			j.flush(ctx, batch)
			return
		}
	}
}

// flush writes batch and returns it emptied for reuse.
func (j *Journal) flush(ctx context.Context, batch []CombatEvent) []CombatEvent {
	if len(batch) == 0 {
		return batch
	}

	n, err := j.writer.InsertBatch(ctx, batch)
	if err != nil {
		j.failed.Add(int64(len(batch)))
		slog.Error("writing combat journal batch",
			"encounterID", j.encounterID,
			"events", len(batch),
			"error", err)
		return batch[:0]
	}

	j.written.Add(n)
	return batch[:0]
}

// Written returns number of events persisted.
func (j *Journal) Written() int64 {
	return j.written.Load()
}

// Dropped returns number of events lost to a full buffer.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Failed returns number of events lost to write errors.
func (j *Journal) Failed() int64 {
	return j.failed.Load()
}
