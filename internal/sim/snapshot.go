package sim

import (
	"github.com/google/uuid"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/player"
)

// EnemyView is a read-only enemy state for renderers.
type EnemyView struct {
	ObjectID  uint32
	Name      string
	Position  model.Vec2
	Facing    float64
	State     model.AggroState
	Health    float64
	MaxHealth float64
}

// Snapshot is a consistent read-only view of the arena.
type Snapshot struct {
	EncounterID uuid.UUID
	Tick        uint64
	Elapsed     float64
	Alpha       float64 // fixed-step interpolation fraction
	Kills       int
	Player      player.Snapshot
	Enemies     []EnemyView
}

// Snapshot captures the arena state between steps.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	enemies := s.spawner.Enemies()
	views := make([]EnemyView, 0, len(enemies))
	for _, e := range enemies {
		v := EnemyView{
			ObjectID:  e.ObjectID(),
			Name:      e.Name(),
			Position:  e.Position(),
			Facing:    e.Facing(),
			State:     model.AggroIdle,
			Health:    e.CurrentHealth(),
			MaxHealth: e.MaxHealth(),
		}
		if c, err := s.aiManager.GetController(e.ObjectID()); err == nil {
			v.State = c.State()
		}
		views = append(views, v)
	}

	return Snapshot{
		EncounterID: s.encounterID,
		Tick:        s.tick,
		Elapsed:     s.elapsed,
		Alpha:       s.clock.Alpha(),
		Kills:       s.kills,
		Player:      s.player.Snapshot(),
		Enemies:     views,
	}
}
