package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/player"
	"github.com/udisondev/topdown/internal/sim"
	"github.com/udisondev/topdown/internal/testutil"
)

type scriptedArena struct {
	snap   sim.Snapshot
	inputs []player.InputEvent
}

func (a *scriptedArena) ApplyInput(ev player.InputEvent) { a.inputs = append(a.inputs, ev) }
func (a *scriptedArena) Snapshot() sim.Snapshot          { return a.snap }

func arenaWith(playerPos model.Vec2, cooldown float64, enemies ...sim.EnemyView) *scriptedArena {
	return &scriptedArena{snap: sim.Snapshot{
		Player: player.Snapshot{
			Position:  playerPos,
			Health:    100,
			MaxHealth: 100,
			Cooldown:  cooldown,
		},
		Enemies: enemies,
	}}
}

func enemyAt(id uint32, x, y float64) sim.EnemyView {
	return sim.EnemyView{ObjectID: id, Position: model.Vec2{X: x, Y: y}, Health: 10, MaxHealth: 10}
}

func TestAutopilot_WalksToNearestEnemy(t *testing.T) {
	a := arenaWith(model.Vec2{}, 0, enemyAt(1, 0, 6), enemyAt(2, -3, 0))
	newAutopilot(a, 1).step()

	require.Len(t, a.inputs, 1)
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{X: -1, Y: 0}}, a.inputs[0])
}

func TestAutopilot_AttacksInRange(t *testing.T) {
	a := arenaWith(model.Vec2{}, 0, enemyAt(1, 0.5, 0))
	newAutopilot(a, 1).step()

	assert.Equal(t, []player.InputEvent{player.AttackTriggered{}}, a.inputs)
}

func TestAutopilot_WaitsForCooldown(t *testing.T) {
	a := arenaWith(model.Vec2{}, 0.4, enemyAt(1, 0.5, 0))
	newAutopilot(a, 1).step()

	assert.Empty(t, a.inputs)
}

func TestAutopilot_StopsWhenNothingLeft(t *testing.T) {
	a := arenaWith(model.Vec2{}, 0, enemyAt(1, 5, 0))
	bot := newAutopilot(a, 1)
	bot.step()

	a.snap.Enemies = nil
	bot.step()

	require.Len(t, a.inputs, 2)
	assert.Equal(t, player.MovementChanged{Vector: model.Vec2{}}, a.inputs[1])

	bot.step()
	assert.Len(t, a.inputs, 2, "unchanged movement is not re-sent")
}

func TestAutopilot_IgnoresDeadEnemies(t *testing.T) {
	dead := enemyAt(1, 0.5, 0)
	dead.Health = 0
	a := arenaWith(model.Vec2{}, 0, dead)
	newAutopilot(a, 1).step()

	assert.Empty(t, a.inputs)
}

func TestAutopilot_ClearsSlime(t *testing.T) {
	cfg := testutil.Arena(testutil.SlimeAt(4, 0, 0))

	s, err := sim.New(cfg)
	require.NoError(t, err)

	bot := newAutopilot(s, cfg.Player.Stats.AttackRange)
	frame := (time.Second / 60).Seconds()
	for range 300 {
		bot.step()
		s.Step(frame)
		if s.Kills() == 1 {
			break
		}
	}

	assert.Equal(t, 1, s.Kills())
	assert.False(t, s.Snapshot().Player.Dead)
}
