package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/topdown/internal/model"
	"github.com/udisondev/topdown/internal/world"
)

type mockSpatial struct {
	mock.Mock
}

func (m *mockSpatial) QueryNearby(center model.Vec2, radius float64) []*model.WorldObject {
	args := m.Called(center, radius)
	return args.Get(0).([]*model.WorldObject)
}

func newTestPlayer(t *testing.T, canSprint bool) *model.Player {
	t.Helper()
	p, err := model.NewPlayer(world.PlayerIDBase+1, model.PlayerTemplate{
		Name:             "Hero",
		Stats:            model.StatsTemplate{MaxHealth: 100, MaxMana: 50, AttackDamage: 10, AttackDelay: 1, AttackRange: 1},
		Movement:         model.MovementTemplate{MoveSpeed: 5, RotationSpeed: 500},
		SprintMultiplier: 2,
		CanSprint:        canSprint,
	}, model.Vec2{})
	require.NoError(t, err)
	return p
}

func newTestEnemy(t *testing.T, objectID uint32, pos model.Vec2, maxHealth float64) *model.Enemy {
	t.Helper()
	e, err := model.NewEnemy(objectID, model.EnemyTemplate{
		Name:            "Slime",
		Stats:           model.StatsTemplate{MaxHealth: maxHealth, AttackDamage: 10, AttackDelay: 1, AttackRange: 1},
		Movement:        model.MovementTemplate{MoveSpeed: 2, RotationSpeed: 360},
		AggroRange:      5,
		AggroBreakRange: 10,
	}, pos)
	require.NoError(t, err)
	return e
}

func TestController_SweepHitsFirstCandidateOnly(t *testing.T) {
	p := newTestPlayer(t, true)
	near := newTestEnemy(t, world.EnemyIDBase+1, model.NewVec2(0.5, 0), 10)
	far := newTestEnemy(t, world.EnemyIDBase+2, model.NewVec2(0.8, 0), 10)
	prop := model.NewWorldObject(0x30000001, "crate", model.NewVec2(0.1, 0))

	spatial := &mockSpatial{}
	spatial.On("QueryNearby", model.Vec2{}, 1.0).
		Return([]*model.WorldObject{p.WorldObject, prop, near.WorldObject, far.WorldObject}).
		Once()

	var hits []model.HitEvent
	c := NewController(p, spatial)
	c.SetHitObserver(func(h model.HitEvent) { hits = append(hits, h) })

	c.Apply(AttackTriggered{})
	c.FixedUpdate(0.02)

	spatial.AssertExpectations(t)
	assert.Equal(t, 0.0, near.CurrentHealth())
	assert.True(t, near.IsDead())
	assert.Equal(t, 10.0, far.CurrentHealth())
	assert.Equal(t, 1.0, p.Cooldown())
	assert.Equal(t, 100.0, p.CurrentHealth(), "player must not hit itself")

	require.Len(t, hits, 1)
	assert.Equal(t, model.HitEvent{
		AttackerID: p.ObjectID(),
		TargetID:   near.ObjectID(),
		Damage:     10,
		Killed:     true,
	}, hits[0])
}

func TestController_AttackTriggersRespectCooldown(t *testing.T) {
	p := newTestPlayer(t, true)
	e := newTestEnemy(t, world.EnemyIDBase+1, model.NewVec2(0.5, 0), 100)

	w := world.New(2)
	require.NoError(t, w.AddObject(p.WorldObject))
	require.NoError(t, w.AddObject(e.WorldObject))

	c := NewController(p, w)

	// Two triggers latched before one tick: the second sweep finds the gate closed.
	c.Apply(AttackTriggered{})
	c.Apply(AttackTriggered{})
	c.Tick(0.1)
	assert.Equal(t, 90.0, e.CurrentHealth())

	c.Apply(AttackTriggered{})
	c.Tick(0.5)
	assert.Equal(t, 90.0, e.CurrentHealth(), "attack during cooldown")

	c.Tick(0.5)
	c.Apply(AttackTriggered{})
	c.Tick(0.1)
	assert.Equal(t, 80.0, e.CurrentHealth())
}

func TestController_SweepSkipsCorpses(t *testing.T) {
	p, err := model.NewPlayer(world.PlayerIDBase+1, model.PlayerTemplate{
		Name:     "Hero",
		Stats:    model.StatsTemplate{MaxHealth: 100, AttackDamage: 10, AttackDelay: 0, AttackRange: 1},
		Movement: model.MovementTemplate{MoveSpeed: 5, RotationSpeed: 500},
	}, model.Vec2{})
	require.NoError(t, err)
	a := newTestEnemy(t, world.EnemyIDBase+1, model.NewVec2(0.5, 0), 10)
	b := newTestEnemy(t, world.EnemyIDBase+2, model.NewVec2(0.8, 0), 10)

	w := world.New(2)
	for _, obj := range []*model.WorldObject{p.WorldObject, a.WorldObject, b.WorldObject} {
		require.NoError(t, w.AddObject(obj))
	}

	var hits []model.HitEvent
	c := NewController(p, w)
	c.SetHitObserver(func(h model.HitEvent) { hits = append(hits, h) })

	// Corpses stay indexed until collected; the second sweep must pass over a.
	c.Apply(AttackTriggered{})
	c.Apply(AttackTriggered{})
	c.FixedUpdate(0.02)

	assert.Equal(t, 0.0, a.CurrentHealth())
	assert.Equal(t, 0.0, b.CurrentHealth())
	require.Len(t, hits, 2)
	assert.Equal(t, a.ObjectID(), hits[0].TargetID)
	assert.Equal(t, b.ObjectID(), hits[1].TargetID)
	for _, h := range hits {
		assert.True(t, h.Killed, "hit on %d", h.TargetID)
	}
}

func TestController_MoveRelocatesPlayer(t *testing.T) {
	p := newTestPlayer(t, false)
	w := world.New(1)
	require.NoError(t, w.AddObject(p.WorldObject))

	c := NewController(p, w)
	c.Apply(MovementChanged{Vector: model.NewVec2(1, 0)})
	c.FixedUpdate(0.5)

	pos := p.Position()
	require.Greater(t, pos.X, 2.0)
	assert.Empty(t, w.QueryNearby(model.Vec2{}, 0.1))
	nearby := w.QueryNearby(pos, 0.1)
	require.Len(t, nearby, 1)
	assert.Same(t, p.WorldObject, nearby[0])
}

func TestController_AttackWithNothingInRange(t *testing.T) {
	p := newTestPlayer(t, true)
	spatial := &mockSpatial{}
	spatial.On("QueryNearby", mock.Anything, 1.0).Return([]*model.WorldObject{p.WorldObject})

	c := NewController(p, spatial)
	c.Apply(AttackTriggered{})
	c.FixedUpdate(0.02)

	assert.Equal(t, 0.0, p.Cooldown(), "no candidate, no cooldown consumed")
}

func TestController_MovementFrameRateIndependent(t *testing.T) {
	run := func(dt float64, steps int) model.Vec2 {
		p := newTestPlayer(t, true)
		c := NewController(p, &mockSpatial{})
		c.Apply(MovementChanged{Vector: model.NewVec2(1, 0)})
		for range steps {
			c.Tick(dt)
		}
		return p.Position()
	}

	coarse := run(0.1, 1)
	fine := run(0.01, 10)

	assert.True(t, coarse.ApproxEqual(model.NewVec2(0.5, 0), 1e-9), "coarse = %+v", coarse)
	assert.True(t, coarse.ApproxEqual(fine, 1e-9), "coarse %+v != fine %+v", coarse, fine)
}

func TestController_Sprint(t *testing.T) {
	tests := []struct {
		name      string
		canSprint bool
		events    []InputEvent
		want      float64
	}{
		{"walk", true, nil, 0.5},
		{"sprint", true, []InputEvent{SprintStarted{}}, 1.0},
		{"sprint ended", true, []InputEvent{SprintStarted{}, SprintEnded{}}, 0.5},
		{"sprint disabled", false, []InputEvent{SprintStarted{}}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlayer(t, tt.canSprint)
			c := NewController(p, &mockSpatial{})
			c.Apply(MovementChanged{Vector: model.NewVec2(0, 1)})
			for _, ev := range tt.events {
				c.Apply(ev)
			}

			c.FixedUpdate(0.1)

			assert.InDelta(t, tt.want, p.Position().Y, 1e-9)
		})
	}
}

func TestController_DiagonalInputNormalized(t *testing.T) {
	p := newTestPlayer(t, true)
	c := NewController(p, &mockSpatial{})

	c.Apply(MovementChanged{Vector: model.NewVec2(1, 1)})
	c.FixedUpdate(0.1)

	assert.InDelta(t, 0.5, p.Position().Len(), 1e-9)
}

func TestController_RotationClamped(t *testing.T) {
	p := newTestPlayer(t, true)
	c := NewController(p, &mockSpatial{})

	// +X input faces -90; rotation speed 500 deg/s allows 50 per 0.1 s.
	c.Apply(MovementChanged{Vector: model.NewVec2(1, 0)})

	c.FixedUpdate(0.1)
	assert.InDelta(t, -50, p.Facing(), 1e-9)

	c.FixedUpdate(0.1)
	assert.InDelta(t, -90, p.Facing(), 1e-9, "rotation must not overshoot")

	c.Apply(MovementChanged{})
	before := p.Position()
	c.FixedUpdate(0.1)
	assert.Equal(t, before, p.Position(), "zero input stops movement")
	assert.InDelta(t, -90, p.Facing(), 1e-9)
}

func TestController_DeadPlayerLatchesButDoesNotAct(t *testing.T) {
	p := newTestPlayer(t, true)
	spatial := &mockSpatial{}
	c := NewController(p, spatial)

	require.NoError(t, p.ApplyDamage(math.MaxFloat64))
	require.True(t, p.IsDead())

	c.Apply(MovementChanged{Vector: model.NewVec2(1, 0)})
	c.Apply(AttackTriggered{})
	c.Tick(0.1)

	assert.Equal(t, model.Vec2{}, p.Position())
	spatial.AssertNotCalled(t, "QueryNearby", mock.Anything, mock.Anything)

	snap := c.Snapshot()
	assert.True(t, snap.Dead)
	assert.False(t, snap.IsMoving)
	assert.Equal(t, model.NewVec2(1, 0), snap.MoveInput)
}

func TestController_InertWithoutSpatialQuery(t *testing.T) {
	p := newTestPlayer(t, true)
	c := NewController(p, nil)

	assert.True(t, c.IsInert())

	c.Apply(MovementChanged{Vector: model.NewVec2(1, 0)})
	c.Tick(0.1)
	assert.Equal(t, model.Vec2{}, p.Position())
}

func TestController_Snapshot(t *testing.T) {
	p := newTestPlayer(t, true)
	c := NewController(p, &mockSpatial{})

	c.Apply(MovementChanged{Vector: model.NewVec2(0, 2)})
	c.Apply(SprintStarted{})
	c.FixedUpdate(0.1)

	snap := c.Snapshot()
	assert.Equal(t, p.ObjectID(), snap.ObjectID)
	assert.True(t, snap.IsMoving)
	assert.True(t, snap.Sprinting)
	assert.Equal(t, model.NewVec2(0, 1), snap.MoveInput)
	assert.InDelta(t, 1.0, snap.Position.Y, 1e-9)
	assert.Equal(t, 100.0, snap.Health)
	assert.Equal(t, 100.0, snap.MaxHealth)
}
