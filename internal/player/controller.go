package player

import (
	"log/slog"

	"github.com/udisondev/topdown/internal/ai"
	"github.com/udisondev/topdown/internal/model"
)

// SpatialQuery finds world objects around a point.
type SpatialQuery interface {
	QueryNearby(center model.Vec2, radius float64) []*model.WorldObject
}

// relocator is implemented by indexes that re-bucket an object after it moves.
type relocator interface {
	Relocate(obj *model.WorldObject) bool
}

// Snapshot is a read-only view of the player for renderers.
type Snapshot struct {
	ObjectID  uint32
	Position  model.Vec2
	Facing    float64
	IsMoving  bool
	MoveInput model.Vec2
	Sprinting bool
	Health    float64
	MaxHealth float64
	Cooldown  float64
	Dead      bool
}

// Controller turns latched input into player movement and melee attacks.
//
// Update (frame tick) decrements the attack cooldown.
// FixedUpdate (fixed tick) steers and moves the player, then resolves queued
// attack triggers as a sweep over nearby combatants.
type Controller struct {
	player  *model.Player
	spatial SpatialQuery
	input   Input
	inert   bool

	hitObserver ai.HitObserver
}

// NewController creates a controller for p using spatial for attack sweeps.
// A controller without stats or without spatial query is inert.
func NewController(p *model.Player, spatial SpatialQuery) *Controller {
	c := &Controller{
		player:  p,
		spatial: spatial,
	}

	switch {
	case !p.HasStats():
		slog.Warn("player has no stats component, controller inert",
			"player", p.Name(),
			"objectID", p.ObjectID())
		c.inert = true
	case spatial == nil:
		slog.Warn("player controller has no spatial query, controller inert",
			"player", p.Name(),
			"objectID", p.ObjectID())
		c.inert = true
	}

	return c
}

// SetHitObserver sets the callback for landed attacks.
func (c *Controller) SetHitObserver(fn ai.HitObserver) {
	c.hitObserver = fn
}

// Player returns the controlled player.
func (c *Controller) Player() *model.Player {
	return c.player
}

// IsInert reports whether the controller never acts.
func (c *Controller) IsInert() bool {
	return c.inert
}

// Apply latches an input event. Safe to call from any goroutine.
// Input latches even when the player is dead.
func (c *Controller) Apply(ev InputEvent) {
	c.input.Apply(ev)
}

// Update decrements the attack cooldown.
func (c *Controller) Update(dt float64) {
	if !c.active() {
		return
	}
	c.player.TickCooldown(dt)
}

// FixedUpdate moves the player along the latched input and resolves attacks.
func (c *Controller) FixedUpdate(dt float64) {
	if !c.active() {
		// Triggers queued while dead are dropped.
		c.input.TakeAttacks()
		return
	}

	move, sprinting := c.input.Movement()
	if !move.IsZero() {
		speed := c.player.EffectiveSpeed(sprinting)
		c.player.Steer(
			model.FacingAngle(move),
			c.player.RotationSpeed()*dt,
			move.Scale(speed*dt),
		)
		if r, ok := c.spatial.(relocator); ok {
			r.Relocate(c.player.WorldObject)
		}
	}

	for range c.input.TakeAttacks() {
		c.sweep()
	}
}

// Tick runs Update then FixedUpdate with the same dt.
func (c *Controller) Tick(dt float64) {
	c.Update(dt)
	c.FixedUpdate(dt)
}

// Snapshot returns the current render view.
func (c *Controller) Snapshot() Snapshot {
	move, sprinting := c.input.Movement()
	s := Snapshot{
		ObjectID:  c.player.ObjectID(),
		Position:  c.player.Position(),
		Facing:    c.player.Facing(),
		IsMoving:  !move.IsZero() && !c.player.IsDead(),
		MoveInput: move,
		Sprinting: sprinting && c.player.CanSprint(),
		Dead:      c.player.IsDead(),
	}
	if c.player.HasStats() {
		s.Health = c.player.CurrentHealth()
		s.MaxHealth = c.player.MaxHealth()
		s.Cooldown = c.player.Cooldown()
	}
	return s
}

func (c *Controller) active() bool {
	return !c.inert && !c.player.IsDead()
}

// sweep attacks living combatants within attack range in discovery order.
// The first consumed attack closes the cooldown for the rest of the sweep.
func (c *Controller) sweep() {
	self := c.player.ObjectID()
	candidates := c.spatial.QueryNearby(c.player.Position(), c.player.AttackRange())

	for _, obj := range candidates {
		if obj.ObjectID() == self {
			continue
		}
		target, ok := obj.Data.(model.Combatant)
		if !ok || target.IsDead() {
			continue
		}
		if !c.player.TryConsumeAttack() {
			continue
		}

		c.strike(obj.ObjectID(), target)
		return
	}
}

func (c *Controller) strike(targetID uint32, target model.Combatant) {
	damage := c.player.AttackDamage()
	wasDead := target.IsDead()
	if err := target.ApplyDamage(damage); err != nil {
		slog.Error("player attack rejected",
			"player", c.player.Name(),
			"targetID", targetID,
			"error", err)
		return
	}

	hit := model.HitEvent{
		AttackerID: c.player.ObjectID(),
		TargetID:   targetID,
		Damage:     damage,
		Killed:     !wasDead && target.IsDead(),
	}

	if ai.IsDebugEnabled() {
		slog.Debug("player attacked target",
			"targetID", hit.TargetID,
			"damage", hit.Damage,
			"killed", hit.Killed)
	}

	if c.hitObserver != nil {
		c.hitObserver(hit)
	}
}
