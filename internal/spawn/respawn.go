package spawn

import (
	"log/slog"
	"sync"

	"github.com/udisondev/topdown/internal/model"
)

// RespawnTask is a pending respawn counted down in simulation time.
type RespawnTask struct {
	Spawn     *model.Spawn
	Remaining float64 // seconds
}

// RespawnQueue holds respawn tasks. One task per dead enemy.
type RespawnQueue struct {
	mu    sync.Mutex
	tasks []*RespawnTask
}

// NewRespawnQueue creates an empty queue.
func NewRespawnQueue() *RespawnQueue {
	return &RespawnQueue{}
}

// Schedule queues a respawn for spawn after delay seconds.
func (q *RespawnQueue) Schedule(spawn *model.Spawn, delay float64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tasks = append(q.tasks, &RespawnTask{Spawn: spawn, Remaining: delay})

	slog.Debug("respawn scheduled",
		"spawnID", spawn.SpawnID(),
		"enemy", spawn.Template().Name,
		"delay", delay)
}

// Cancel drops every pending task of spawnID.
func (q *RespawnQueue) Cancel(spawnID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if t.Spawn.SpawnID() != spawnID {
			kept = append(kept, t)
		}
	}
	clear(q.tasks[len(kept):])
	q.tasks = kept

	slog.Debug("respawn cancelled", "spawnID", spawnID)
}

// Advance counts all tasks down by dt and returns spawns whose task is due,
// in scheduling order. Negative dt is ignored.
func (q *RespawnQueue) Advance(dt float64) []*model.Spawn {
	if !(dt > 0) {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*model.Spawn
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		t.Remaining -= dt
		if t.Remaining <= 0 {
			due = append(due, t.Spawn)
			continue
		}
		kept = append(kept, t)
	}
	clear(q.tasks[len(kept):])
	q.tasks = kept

	return due
}

// TaskCount returns number of scheduled respawn tasks
func (q *RespawnQueue) TaskCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
