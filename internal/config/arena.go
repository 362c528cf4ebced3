package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/udisondev/topdown/internal/model"
)

// Arena holds all configuration for one arena simulation.
type Arena struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	DebugAI  bool   `yaml:"debug_ai"`  // hot-path AI debug logs

	Simulation SimulationConfig `yaml:"simulation"`
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`

	// Enemy templates by name
	Enemies map[string]EnemyConfig `yaml:"enemies"`
	Spawns  []SpawnConfig          `yaml:"spawns"`

	Database DatabaseConfig `yaml:"database"`
	Audio    AudioConfig    `yaml:"audio"`
	Terminal TerminalConfig `yaml:"terminal"`
}

// SimulationConfig controls the clock.
type SimulationConfig struct {
	FixedStep time.Duration `yaml:"fixed_step"` // fixed tick (default: 20ms)
	FrameRate int           `yaml:"frame_rate"` // frame ticks per second (default: 60)
	MaxSteps  int           `yaml:"max_steps"`  // fixed steps per frame cap (default: 5)
}

// WorldConfig controls the spatial index.
type WorldConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// Point is a YAML position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec2 converts to model.Vec2.
func (p Point) Vec2() model.Vec2 {
	return model.Vec2{X: p.X, Y: p.Y}
}

// StatsConfig is the YAML form of model.StatsTemplate.
type StatsConfig struct {
	MaxHealth    float64 `yaml:"max_health"`
	MaxMana      float64 `yaml:"max_mana"`
	AttackDamage float64 `yaml:"attack_damage"`
	AttackDelay  float64 `yaml:"attack_delay"` // seconds
	AttackRange  float64 `yaml:"attack_range"`
}

// Template converts to model.StatsTemplate.
func (s StatsConfig) Template() model.StatsTemplate {
	return model.StatsTemplate{
		MaxHealth:    s.MaxHealth,
		MaxMana:      s.MaxMana,
		AttackDamage: s.AttackDamage,
		AttackDelay:  s.AttackDelay,
		AttackRange:  s.AttackRange,
	}
}

// PlayerConfig describes the player character.
type PlayerConfig struct {
	Name             string      `yaml:"name"`
	Position         Point       `yaml:"position"`
	MoveSpeed        float64     `yaml:"move_speed"`
	RotationSpeed    float64     `yaml:"rotation_speed"` // degrees per second
	SprintMultiplier float64     `yaml:"sprint_multiplier"`
	CanSprint        bool        `yaml:"can_sprint"`
	Stats            StatsConfig `yaml:"stats"`
}

// Template converts to model.PlayerTemplate.
func (p PlayerConfig) Template() model.PlayerTemplate {
	return model.PlayerTemplate{
		Name:             p.Name,
		Stats:            p.Stats.Template(),
		Movement:         model.MovementTemplate{MoveSpeed: p.MoveSpeed, RotationSpeed: p.RotationSpeed},
		SprintMultiplier: p.SprintMultiplier,
		CanSprint:        p.CanSprint,
	}
}

// EnemyConfig describes one enemy kind.
type EnemyConfig struct {
	MoveSpeed       float64     `yaml:"move_speed"`
	RotationSpeed   float64     `yaml:"rotation_speed"`
	AggroRange      float64     `yaml:"aggro_range"`
	AggroBreakRange float64     `yaml:"aggro_break_range"`
	Stats           StatsConfig `yaml:"stats"`
}

// Template converts to model.EnemyTemplate named name.
func (e EnemyConfig) Template(name string) model.EnemyTemplate {
	return model.EnemyTemplate{
		Name:            name,
		Stats:           e.Stats.Template(),
		Movement:        model.MovementTemplate{MoveSpeed: e.MoveSpeed, RotationSpeed: e.RotationSpeed},
		AggroRange:      e.AggroRange,
		AggroBreakRange: e.AggroBreakRange,
	}
}

// SpawnConfig places enemies of one template.
type SpawnConfig struct {
	Enemy        string        `yaml:"enemy"` // key in Arena.Enemies
	Position     Point         `yaml:"position"`
	Count        int           `yaml:"count"`
	Spread       float64       `yaml:"spread"`
	RespawnDelay time.Duration `yaml:"respawn_delay"` // 0 = no respawn
}

// AudioConfig toggles sound cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // (0, 1]
}

// TerminalConfig controls the terminal front end.
type TerminalConfig struct {
	// Terminals report no key release; held movement is cancelled after this idle time.
	KeyHoldTimeout time.Duration `yaml:"key_hold_timeout"`
	UnitsPerCell   float64       `yaml:"units_per_cell"` // world units per terminal column
}

// DefaultPlayer returns the stock player character.
func DefaultPlayer() PlayerConfig {
	return PlayerConfig{
		Name:             "Hero",
		MoveSpeed:        5,
		RotationSpeed:    500,
		SprintMultiplier: 2,
		CanSprint:        true,
		Stats: StatsConfig{
			MaxHealth:    100,
			MaxMana:      50,
			AttackDamage: 10,
			AttackDelay:  1,
			AttackRange:  1,
		},
	}
}

// DefaultEnemy returns the stock enemy kind.
func DefaultEnemy() EnemyConfig {
	return EnemyConfig{
		MoveSpeed:       2,
		RotationSpeed:   360,
		AggroRange:      5,
		AggroBreakRange: 10,
		Stats: StatsConfig{
			MaxHealth:    10,
			AttackDamage: 10,
			AttackDelay:  1,
			AttackRange:  1,
		},
	}
}

// DefaultArena returns Arena config with sensible defaults.
func DefaultArena() Arena {
	return Arena{
		LogLevel: "info",
		Simulation: SimulationConfig{
			FixedStep: 20 * time.Millisecond,
			FrameRate: 60,
			MaxSteps:  5,
		},
		World:  WorldConfig{CellSize: 4},
		Player: DefaultPlayer(),
		Enemies: map[string]EnemyConfig{
			"slime": DefaultEnemy(),
		},
		Spawns: []SpawnConfig{
			{
				Enemy:        "slime",
				Position:     Point{X: 8, Y: 0},
				Count:        3,
				Spread:       2,
				RespawnDelay: 10 * time.Second,
			},
		},
		Database: DefaultDatabase(),
		Audio:    AudioConfig{Enabled: false, Volume: 0.5},
		Terminal: TerminalConfig{
			KeyHoldTimeout: 150 * time.Millisecond,
			UnitsPerCell:   0.5,
		},
	}
}

// LoadArena loads arena config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadArena(path string) (Arena, error) {
	cfg := DefaultArena()

	if err := load(path, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks templates and references. All problems are reported together.
func (a Arena) Validate() error {
	var errs []error

	if a.Simulation.FixedStep <= 0 {
		errs = append(errs, fmt.Errorf("simulation.fixed_step must be positive, got %s", a.Simulation.FixedStep))
	}
	if a.Simulation.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.frame_rate must be positive, got %d", a.Simulation.FrameRate))
	}
	if a.Simulation.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("simulation.max_steps must be positive, got %d", a.Simulation.MaxSteps))
	}
	if _, err := ParseLogLevel(a.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := a.Player.Template().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	for name, e := range a.Enemies {
		if err := e.Template(name).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("enemies.%s: %w", name, err))
		}
	}
	for i, s := range a.Spawns {
		if _, ok := a.Enemies[s.Enemy]; !ok {
			errs = append(errs, fmt.Errorf("spawns[%d]: unknown enemy %q", i, s.Enemy))
		}
		if s.Count < 1 {
			errs = append(errs, fmt.Errorf("spawns[%d]: count must be positive, got %d", i, s.Count))
		}
		if s.RespawnDelay < 0 {
			errs = append(errs, fmt.Errorf("spawns[%d]: respawn_delay must be non-negative", i))
		}
	}
	if a.Audio.Enabled && (a.Audio.Volume <= 0 || a.Audio.Volume > 1) {
		errs = append(errs, fmt.Errorf("audio.volume must be in (0, 1], got %v", a.Audio.Volume))
	}
	if a.Database.Enabled && a.Database.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("database.batch_size must be positive, got %d", a.Database.BatchSize))
	}

	return errors.Join(errs...)
}

// ParseLogLevel maps a config log level to slog.Level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}
