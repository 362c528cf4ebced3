package model

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Spawn is a spawn point for enemies of one template.
type Spawn struct {
	spawnID      int64
	template     EnemyTemplate
	position     Vec2
	spread       float64 // radius of the ring enemies are placed on when count > 1
	maximumCount int
	respawnDelay float64 // seconds of simulation time, 0 = no respawn

	mu           sync.RWMutex
	currentCount atomic.Int32
	slots        []*Enemy // slot index → live enemy, nil when free
}

// NewSpawn creates a new spawn point.
func NewSpawn(spawnID int64, tmpl EnemyTemplate, pos Vec2, maximumCount int, spread, respawnDelay float64) (*Spawn, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("spawn %d: %w", spawnID, err)
	}
	if maximumCount < 1 {
		return nil, fmt.Errorf("spawn %d: count %d must be positive", spawnID, maximumCount)
	}
	if !(spread >= 0) || !(respawnDelay >= 0) {
		return nil, fmt.Errorf("spawn %d: spread and respawn delay must be non-negative", spawnID)
	}

	return &Spawn{
		spawnID:      spawnID,
		template:     tmpl,
		position:     pos,
		spread:       spread,
		maximumCount: maximumCount,
		respawnDelay: respawnDelay,
		slots:        make([]*Enemy, maximumCount),
	}, nil
}

// SpawnID returns spawn ID
func (s *Spawn) SpawnID() int64 {
	return s.spawnID
}

// Template returns the enemy template.
func (s *Spawn) Template() EnemyTemplate {
	return s.template
}

// Position returns spawn center.
func (s *Spawn) Position() Vec2 {
	return s.position
}

// SlotPosition returns placement for the slot-th enemy of this spawn.
// Slots are spread evenly on a ring around the center, slot 0 pointing +Y.
func (s *Spawn) SlotPosition(slot int) Vec2 {
	if s.maximumCount == 1 || s.spread == 0 {
		return s.position
	}
	angle := 2 * math.Pi * float64(slot%s.maximumCount) / float64(s.maximumCount)
	return s.position.Add(Vec2{X: -math.Sin(angle), Y: math.Cos(angle)}.Scale(s.spread))
}

// MaximumCount returns maximum number of enemies alive at once.
func (s *Spawn) MaximumCount() int {
	return s.maximumCount
}

// RespawnDelay returns respawn delay in seconds.
func (s *Spawn) RespawnDelay() float64 {
	return s.respawnDelay
}

// DoRespawn returns whether enemies come back after death.
func (s *Spawn) DoRespawn() bool {
	return s.respawnDelay > 0
}

// CurrentCount returns current spawned count (atomic read)
func (s *Spawn) CurrentCount() int {
	return int(s.currentCount.Load())
}

// FreeSlot returns the lowest unoccupied slot, or -1 when the spawn is full.
func (s *Spawn) FreeSlot() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, e := range s.slots {
		if e == nil {
			return i
		}
	}
	return -1
}

// AddEnemy puts a spawned enemy into slot and increases the count.
func (s *Spawn) AddEnemy(slot int, e *Enemy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot >= len(s.slots) {
		return fmt.Errorf("spawn %d: slot %d out of range [0, %d)", s.spawnID, slot, len(s.slots))
	}
	if s.slots[slot] != nil {
		return fmt.Errorf("spawn %d: slot %d is occupied by %d", s.spawnID, slot, s.slots[slot].ObjectID())
	}
	s.slots[slot] = e
	s.currentCount.Add(1)
	return nil
}

// RemoveEnemy frees the slot of a despawned enemy and decreases the count.
// Returns false if e did not belong to this spawn.
func (s *Spawn) RemoveEnemy(e *Enemy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.slots {
		if n == e {
			s.slots[i] = nil
			s.currentCount.Add(-1)
			return true
		}
	}
	return false
}

// Enemies returns live enemies in slot order.
func (s *Spawn) Enemies() []*Enemy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Enemy, 0, len(s.slots))
	for _, e := range s.slots {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
