package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/testutil"
)

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]CombatEvent
	err     error
}

func (w *fakeWriter) InsertBatch(_ context.Context, events []CombatEvent) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return 0, w.err
	}
	w.batches = append(w.batches, append([]CombatEvent(nil), events...))
	return int64(len(events)), nil
}

func (w *fakeWriter) snapshot() [][]CombatEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([][]CombatEvent(nil), w.batches...)
}

func (w *fakeWriter) total() int {
	n := 0
	for _, b := range w.snapshot() {
		n += len(b)
	}
	return n
}

func runJournal(t *testing.T, j *Journal) (stop func()) {
	t.Helper()
	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()
	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func TestJournal_FlushesFullBatches(t *testing.T) {
	w := &fakeWriter{}
	id := uuid.New()
	j := NewJournal(w, id, 64, 3, time.Hour)
	stop := runJournal(t, j)

	for i := range 6 {
		j.RecordHit(uint64(i), model.HitEvent{AttackerID: 1, TargetID: 2, Damage: 10})
	}

	assert.Eventually(t, func() bool { return w.total() == 6 }, time.Second, 5*time.Millisecond)
	stop()

	batches := w.snapshot()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 3)
	assert.Equal(t, id, batches[0][0].EncounterID)
	assert.Equal(t, EventHit, batches[0][0].Kind)
	assert.Equal(t, uint64(5), batches[1][2].Tick)
	assert.Equal(t, int64(6), j.Written())
}

func TestJournal_FlushesOnInterval(t *testing.T) {
	w := &fakeWriter{}
	j := NewJournal(w, uuid.New(), 64, 100, 20*time.Millisecond)
	stop := runJournal(t, j)
	defer stop()

	j.RecordDeath(7, 0x20000001)

	assert.Eventually(t, func() bool { return w.total() == 1 }, time.Second, 5*time.Millisecond)
	e := w.snapshot()[0][0]
	assert.Equal(t, EventDeath, e.Kind)
	assert.Equal(t, uint32(0x20000001), e.TargetID)
	assert.Zero(t, e.AttackerID)
}

func TestJournal_DrainsOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	j := NewJournal(w, uuid.New(), 64, 100, time.Hour)

	// Queued before Run starts: only the shutdown drain can write them.
	for i := range 10 {
		j.RecordHit(uint64(i), model.HitEvent{TargetID: 1, Damage: 1})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, j.Run(ctx))

	assert.Equal(t, 10, w.total())
	assert.Equal(t, int64(10), j.Written())
}

func TestJournal_DropsWhenBufferFull(t *testing.T) {
	j := NewJournal(&fakeWriter{}, uuid.New(), 2, 10, time.Hour)

	for range 5 {
		j.RecordHit(1, model.HitEvent{})
	}

	assert.Equal(t, int64(3), j.Dropped())
}

func TestJournal_WriteErrorsCounted(t *testing.T) {
	w := &fakeWriter{err: errors.New("connection refused")}
	j := NewJournal(w, uuid.New(), 16, 2, time.Hour)

	j.RecordHit(1, model.HitEvent{})
	j.RecordHit(2, model.HitEvent{})
	j.RecordDeath(2, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, j.Run(ctx))

	assert.Equal(t, int64(3), j.Failed())
	assert.Zero(t, j.Written())
}
