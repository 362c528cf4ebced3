package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/player"
	"github.com/udisondev/topdown/internal/sim"
)

// approachFactor keeps the bot slightly inside its attack range.
const approachFactor = 0.8

type arena interface {
	ApplyInput(ev player.InputEvent)
	Snapshot() sim.Snapshot
}

// autopilot drives the player headlessly: walk to the nearest enemy and attack
// it whenever the cooldown allows.
type autopilot struct {
	arena       arena
	attackRange float64
	move        model.Vec2
}

func newAutopilot(a arena, attackRange float64) *autopilot {
	return &autopilot{arena: a, attackRange: attackRange}
}

func (b *autopilot) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.step()
		}
	}
}

func (b *autopilot) step() {
	snap := b.arena.Snapshot()
	if snap.Player.Dead {
		b.steer(model.Vec2{})
		return
	}

	target, ok := nearestEnemy(snap)
	if !ok {
		b.steer(model.Vec2{})
		return
	}

	offset := target.Position.Sub(snap.Player.Position)
	if offset.Len() > b.attackRange*approachFactor {
		b.steer(offset.Normalized())
		return
	}

	b.steer(model.Vec2{})
	if snap.Player.Cooldown <= 0 {
		slog.Debug("autopilot attacking", "target", target.ObjectID, "distance", offset.Len())
		b.arena.ApplyInput(player.AttackTriggered{})
	}
}

func (b *autopilot) steer(move model.Vec2) {
	if move == b.move {
		return
	}
	b.move = move
	b.arena.ApplyInput(player.MovementChanged{Vector: move})
}

func nearestEnemy(snap sim.Snapshot) (sim.EnemyView, bool) {
	var (
		best   sim.EnemyView
		bestSq float64
		found  bool
	)
	for _, e := range snap.Enemies {
		if e.Health <= 0 {
			continue
		}
		d := e.Position.DistanceSquared(snap.Player.Position)
		if !found || d < bestSq {
			best, bestSq, found = e, d, true
		}
	}
	return best, found
}
