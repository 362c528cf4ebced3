package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/topdown/internal/ai"
	"github.com/udisondev/topdown/internal/config"
	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/player"
	"github.com/udisondev/topdown/internal/spawn"
	"github.com/udisondev/topdown/internal/world"
)

// Recorder receives combat events. Calls happen on the simulation goroutine and
// must not block.
type Recorder interface {
	RecordHit(tick uint64, hit model.HitEvent)
	RecordDeath(tick uint64, objectID uint32)
}

// DeathListener is notified when the player or an enemy dies.
type DeathListener func(objectID uint32, isPlayer bool)

// Simulation owns one arena: the player, spawned enemies and the world index.
//
// Step, ApplyInput and Snapshot are serialized by one mutex. Hit and death
// listeners run inside Step and must not call back into the Simulation.
type Simulation struct {
	mu sync.Mutex

	clock         *Clock
	frameInterval time.Duration

	world     *world.World
	ids       *world.ObjectIDGenerator
	aiManager *ai.TickManager
	spawner   *spawn.Manager
	player    *player.Controller

	encounterID uuid.UUID
	tick        uint64  // fixed steps executed
	elapsed     float64 // simulated seconds
	kills       int

	recorder       Recorder
	hitListeners   []ai.HitObserver
	deathListeners []DeathListener
}

// New builds an arena from cfg and spawns its enemies.
func New(cfg config.Arena) (*Simulation, error) {
	clock, err := NewClock(cfg.Simulation.FixedStep.Seconds(), cfg.Simulation.MaxSteps)
	if err != nil {
		return nil, fmt.Errorf("creating clock: %w", err)
	}

	frameRate := max(cfg.Simulation.FrameRate, 1)

	s := &Simulation{
		clock:         clock,
		frameInterval: time.Second / time.Duration(frameRate),
		world:         world.New(cfg.World.CellSize),
		ids:           world.NewObjectIDGenerator(),
		aiManager:     ai.NewTickManager(),
		encounterID:   uuid.New(),
	}

	p, err := model.NewPlayer(s.ids.NextPlayerID(), cfg.Player.Template(), cfg.Player.Position.Vec2())
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	if err := s.world.AddObject(p.WorldObject); err != nil {
		return nil, fmt.Errorf("adding player to world: %w", err)
	}
	s.world.SetPlayer(p)
	p.OnDeath(func() { s.onDeath(p.ObjectID(), true) })

	s.player = player.NewController(p, s.world)
	s.player.SetHitObserver(s.onHit)

	s.spawner = spawn.NewManager(s.world, s.aiManager, s.ids, s.world)
	s.spawner.SetHitObserver(s.onHit)
	s.spawner.SetDeathObserver(func(e *model.Enemy) { s.onDeath(e.ObjectID(), false) })

	for i, sc := range cfg.Spawns {
		enemyCfg, ok := cfg.Enemies[sc.Enemy]
		if !ok {
			return nil, fmt.Errorf("spawn %d: unknown enemy %q", i, sc.Enemy)
		}
		sp, err := model.NewSpawn(int64(i+1), enemyCfg.Template(sc.Enemy), sc.Position.Vec2(), sc.Count, sc.Spread, sc.RespawnDelay.Seconds())
		if err != nil {
			return nil, fmt.Errorf("creating spawn: %w", err)
		}
		if err := s.spawner.AddSpawn(sp); err != nil {
			return nil, fmt.Errorf("registering spawn: %w", err)
		}
	}

	if err := s.spawner.SpawnAll(); err != nil {
		return nil, err
	}

	slog.Info("simulation created",
		"encounterID", s.encounterID,
		"player", p.Name(),
		"enemies", s.aiManager.Count(),
		"fixedStep", cfg.Simulation.FixedStep,
		"frameRate", frameRate)

	return s, nil
}

// EncounterID identifies this simulation run.
func (s *Simulation) EncounterID() uuid.UUID {
	return s.encounterID
}

// FrameInterval returns the wall-clock period of Run's frame ticks.
func (s *Simulation) FrameInterval() time.Duration {
	return s.frameInterval
}

// SetRecorder sets the combat event recorder. nil disables recording.
func (s *Simulation) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// OnHit subscribes fn to every landed attack.
func (s *Simulation) OnHit(fn ai.HitObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hitListeners = append(s.hitListeners, fn)
}

// OnDeath subscribes fn to player and enemy deaths.
func (s *Simulation) OnDeath(fn DeathListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deathListeners = append(s.deathListeners, fn)
}

// ApplyInput latches a player input event for the next tick.
func (s *Simulation) ApplyInput(ev player.InputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Apply(ev)
}

// Step advances the simulation by frameDt seconds and returns the number of
// fixed steps run.
//
// Frame phase: player and enemies tick cooldowns and aggro with frameDt.
// Fixed phase, per due step: player moves and attacks, enemies chase and
// attack, the world is re-indexed and enemies that died are despawned.
// Respawn timers then advance by frameDt.
func (s *Simulation) Step(frameDt float64) int {
	if !(frameDt > 0) {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.safeCall("player update", func() { s.player.Update(frameDt) })
	s.aiManager.UpdateAll(frameDt)

	steps := s.clock.Advance(frameDt)
	dt := s.clock.FixedStep
	for range steps {
		s.tick++
		s.safeCall("player fixed update", func() { s.player.FixedUpdate(dt) })
		s.aiManager.FixedUpdateAll(dt)
		s.world.Reindex()
		s.kills += len(s.spawner.CollectDead())
	}

	s.spawner.Tick(frameDt)
	s.elapsed += frameDt

	return steps
}

// Run steps the simulation in real time until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	slog.Info("simulation running", "encounterID", s.encounterID, "frameInterval", s.frameInterval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()

		case now := <-ticker.C:
			s.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick returns number of fixed steps executed.
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Kills returns number of enemies killed.
func (s *Simulation) Kills() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kills
}

// Player returns the player entity.
func (s *Simulation) Player() *model.Player {
	return s.player.Player()
}

// World returns the spatial index.
func (s *Simulation) World() *world.World {
	return s.world
}

// Enemies returns living enemies in spawn order.
func (s *Simulation) Enemies() []*model.Enemy {
	return s.spawner.Enemies()
}

// shutdown cancels pending respawns and clears the arena of enemies.
func (s *Simulation) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spawner.Shutdown()
	slog.Info("simulation stopping",
		"encounterID", s.encounterID,
		"ticks", s.tick,
		"kills", s.kills)
}

func (s *Simulation) onHit(hit model.HitEvent) {
	if s.recorder != nil {
		s.recorder.RecordHit(s.tick, hit)
	}
	for _, fn := range s.hitListeners {
		fn(hit)
	}
}

func (s *Simulation) onDeath(objectID uint32, isPlayer bool) {
	if isPlayer {
		// Also clears the target registry, so later spawns stay idle.
		s.world.RemoveObject(objectID)
		slog.Info("player died", "objectID", objectID, "tick", s.tick)
	}
	if s.recorder != nil {
		s.recorder.RecordDeath(s.tick, objectID)
	}
	for _, fn := range s.deathListeners {
		fn(objectID, isPlayer)
	}
}

func (s *Simulation) safeCall(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("simulation entity panicked",
				"phase", phase,
				"panic", r)
		}
	}()
	fn()
}
