package spawn

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/topdown/internal/ai"
	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/world"
)

// TargetResolver finds the player enemies pursue.
type TargetResolver interface {
	ResolveTarget() (ai.Target, bool)
}

// Manager creates enemies at spawn points, injects their target, despawns the
// dead and brings them back after the spawn's respawn delay.
type Manager struct {
	world     *world.World
	aiManager *ai.TickManager
	ids       *world.ObjectIDGenerator
	targets   TargetResolver

	hitObserver   ai.HitObserver
	deathObserver func(*model.Enemy)

	spawns     []*model.Spawn
	spawnsByID map[int64]*model.Spawn

	noTargetOnce sync.Once

	mu       sync.Mutex
	dead     []*model.Enemy // died during the current step, despawned by CollectDead
	respawns *RespawnQueue
}

// NewManager creates new spawn manager. targets may be nil: enemies then stay idle.
func NewManager(
	w *world.World,
	aiManager *ai.TickManager,
	ids *world.ObjectIDGenerator,
	targets TargetResolver,
) *Manager {
	return &Manager{
		world:      w,
		aiManager:  aiManager,
		ids:        ids,
		targets:    targets,
		spawnsByID: make(map[int64]*model.Spawn),
		respawns:   NewRespawnQueue(),
	}
}

// SetHitObserver sets the callback passed to every spawned enemy AI.
func (m *Manager) SetHitObserver(fn ai.HitObserver) {
	m.hitObserver = fn
}

// SetDeathObserver sets the callback fired when a spawned enemy dies.
func (m *Manager) SetDeathObserver(fn func(*model.Enemy)) {
	m.deathObserver = fn
}

// AddSpawn registers a spawn point.
func (m *Manager) AddSpawn(spawn *model.Spawn) error {
	if _, exists := m.spawnsByID[spawn.SpawnID()]; exists {
		return fmt.Errorf("spawn %d already registered", spawn.SpawnID())
	}
	m.spawns = append(m.spawns, spawn)
	m.spawnsByID[spawn.SpawnID()] = spawn
	return nil
}

// GetSpawn returns spawn by ID
func (m *Manager) GetSpawn(spawnID int64) (*model.Spawn, bool) {
	s, ok := m.spawnsByID[spawnID]
	return s, ok
}

// SpawnCount returns number of registered spawn points.
func (m *Manager) SpawnCount() int {
	return len(m.spawns)
}

// SpawnAll fills every spawn point up to its maximum count.
func (m *Manager) SpawnAll() error {
	count := 0
	var firstErr error

	for _, spawn := range m.spawns {
		for spawn.CurrentCount() < spawn.MaximumCount() {
			if _, err := m.DoSpawn(spawn); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				slog.Error("failed to spawn enemy",
					"spawnID", spawn.SpawnID(),
					"enemy", spawn.Template().Name,
					"error", err)
				break
			}
			count++
		}
	}

	if firstErr != nil {
		slog.Warn("SpawnAll completed with errors", "spawned", count, "error", firstErr)
		return fmt.Errorf("spawning all enemies: %w", firstErr)
	}

	slog.Info("all enemies spawned", "count", count)
	return nil
}

// DoSpawn creates one enemy at spawn, adds it to the world and registers its AI.
func (m *Manager) DoSpawn(spawn *model.Spawn) (*model.Enemy, error) {
	slot := spawn.FreeSlot()
	if slot < 0 {
		return nil, fmt.Errorf("spawn %d is full (%d/%d)", spawn.SpawnID(), spawn.CurrentCount(), spawn.MaximumCount())
	}

	objectID := m.ids.NextEnemyID()
	pos := spawn.SlotPosition(slot)

	enemy, err := model.NewEnemy(objectID, spawn.Template(), pos)
	if err != nil {
		return nil, fmt.Errorf("creating enemy for spawn %d: %w", spawn.SpawnID(), err)
	}
	enemy.SetSpawnID(spawn.SpawnID())

	if err := spawn.AddEnemy(slot, enemy); err != nil {
		return nil, err
	}
	if err := m.world.AddObject(enemy.WorldObject); err != nil {
		spawn.RemoveEnemy(enemy)
		return nil, fmt.Errorf("adding enemy to world: %w", err)
	}

	enemy.OnDeath(func() { m.markDead(enemy) })

	enemyAI := ai.NewEnemyAI(enemy, m.resolveTarget())
	enemyAI.SetHitObserver(m.hitObserver)
	m.aiManager.Register(enemyAI)

	slog.Debug("enemy spawned",
		"objectID", objectID,
		"name", enemy.Name(),
		"spawnID", spawn.SpawnID(),
		"slot", slot,
		"position", pos)

	return enemy, nil
}

// DespawnEnemy unregisters the enemy's AI and removes it from the world.
func (m *Manager) DespawnEnemy(enemy *model.Enemy) {
	m.aiManager.Unregister(enemy.ObjectID())
	m.world.RemoveObject(enemy.ObjectID())

	spawn, ok := m.spawnsByID[enemy.SpawnID()]
	if !ok {
		slog.Warn("despawning enemy without spawn", "objectID", enemy.ObjectID())
		return
	}
	spawn.RemoveEnemy(enemy)

	slog.Debug("enemy despawned",
		"objectID", enemy.ObjectID(),
		"name", enemy.Name(),
		"spawnID", spawn.SpawnID())
}

// CollectDead despawns enemies that died since the last call and schedules
// their respawn. Returns the despawned enemies.
func (m *Manager) CollectDead() []*model.Enemy {
	m.mu.Lock()
	dead := m.dead
	m.dead = nil
	m.mu.Unlock()

	for _, enemy := range dead {
		m.DespawnEnemy(enemy)

		spawn, ok := m.spawnsByID[enemy.SpawnID()]
		if ok && spawn.DoRespawn() {
			m.respawns.Schedule(spawn, spawn.RespawnDelay())
		}
	}
	return dead
}

// Tick advances respawn timers by dt seconds of simulation time and spawns
// enemies whose delay elapsed.
func (m *Manager) Tick(dt float64) {
	for _, spawn := range m.respawns.Advance(dt) {
		if spawn.CurrentCount() >= spawn.MaximumCount() {
			slog.Debug("respawn skipped (spawn full)",
				"spawnID", spawn.SpawnID(),
				"currentCount", spawn.CurrentCount(),
				"maximumCount", spawn.MaximumCount())
			continue
		}

		enemy, err := m.DoSpawn(spawn)
		if err != nil {
			slog.Error("respawn failed",
				"spawnID", spawn.SpawnID(),
				"error", err)
			continue
		}

		slog.Info("enemy respawned",
			"objectID", enemy.ObjectID(),
			"name", enemy.Name(),
			"spawnID", spawn.SpawnID())
	}
}

// Shutdown cancels pending respawns and despawns every enemy, dead or alive.
// Spawn points stay registered.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.dead = nil
	m.mu.Unlock()

	despawned := 0
	for _, spawn := range m.spawns {
		m.respawns.Cancel(spawn.SpawnID())
		for _, enemy := range spawn.Enemies() {
			m.DespawnEnemy(enemy)
			despawned++
		}
	}

	slog.Info("spawn manager shut down", "despawned", despawned)
}

// PendingRespawns returns number of scheduled respawns.
func (m *Manager) PendingRespawns() int {
	return m.respawns.TaskCount()
}

// Enemies returns living spawned enemies in spawn order.
func (m *Manager) Enemies() []*model.Enemy {
	var out []*model.Enemy
	for _, spawn := range m.spawns {
		out = append(out, spawn.Enemies()...)
	}
	return out
}

func (m *Manager) markDead(enemy *model.Enemy) {
	m.mu.Lock()
	m.dead = append(m.dead, enemy)
	m.mu.Unlock()

	slog.Info("enemy died",
		"objectID", enemy.ObjectID(),
		"name", enemy.Name())

	if m.deathObserver != nil {
		m.deathObserver(enemy)
	}
}

// resolveTarget returns the current player or an untyped nil.
func (m *Manager) resolveTarget() ai.Target {
	if m.targets != nil {
		if target, ok := m.targets.ResolveTarget(); ok && target != nil {
			return target
		}
	}

	m.noTargetOnce.Do(func() {
		slog.Warn("no player target registered, spawned enemies stay idle")
	})
	return nil
}
