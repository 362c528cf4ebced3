package testutil

import (
	"time"

	"github.com/udisondev/topdown/internal/config"
)

// Arena returns the default arena config with spawns replaced.
func Arena(spawns ...config.SpawnConfig) config.Arena {
	cfg := config.DefaultArena()
	cfg.Spawns = spawns
	return cfg
}

// SlimeAt places one default slime at (x, y).
func SlimeAt(x, y float64, respawn time.Duration) config.SpawnConfig {
	return config.SpawnConfig{
		Enemy:        "slime",
		Position:     config.Point{X: x, Y: y},
		Count:        1,
		RespawnDelay: respawn,
	}
}
