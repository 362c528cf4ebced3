package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/topdown/internal/model"
)

// EnemyAI drives one enemy: aggro hysteresis, chase and melee attack.
//
// Update (frame tick) decrements the attack cooldown and re-evaluates aggro.
// FixedUpdate (fixed tick) moves toward the target or, within attack range,
// tries to attack through the enemy's own cooldown gate.
//
// An EnemyAI without a target or without stats is inert: it never moves or attacks.
type EnemyAI struct {
	enemy     *model.Enemy
	target    Target // nil: no player resolved at spawn, permanent
	aggro     *model.Aggro
	inert     bool
	isRunning atomic.Bool

	hitObserver HitObserver
}

// NewEnemyAI creates a controller for enemy pursuing target. target may be nil.
func NewEnemyAI(enemy *model.Enemy, target Target) *EnemyAI {
	ai := &EnemyAI{
		enemy:  enemy,
		target: target,
	}

	aggro, err := model.NewAggro(enemy.AggroRange(), enemy.AggroBreakRange())
	if err != nil {
		slog.Warn("enemy AI has invalid aggro ranges, staying inert",
			"enemy", enemy.Name(),
			"objectID", enemy.ObjectID(),
			"error", err)
		aggro, _ = model.NewAggro(0, 0)
		ai.inert = true
	}
	ai.aggro = aggro

	switch {
	case !enemy.HasStats():
		slog.Warn("enemy has no stats component, staying inert",
			"enemy", enemy.Name(),
			"objectID", enemy.ObjectID())
		ai.inert = true
	case target == nil:
		// Logged once per spawn manager; per-enemy detail only at debug.
		if IsDebugEnabled() {
			slog.Debug("enemy AI has no target, staying idle",
				"enemy", enemy.Name(),
				"objectID", enemy.ObjectID())
		}
		ai.inert = true
	}

	return ai
}

// SetHitObserver sets the callback for landed attacks.
func (ai *EnemyAI) SetHitObserver(fn HitObserver) {
	ai.hitObserver = fn
}

// ObjectID returns the enemy's object ID.
func (ai *EnemyAI) ObjectID() uint32 {
	return ai.enemy.ObjectID()
}

// Enemy returns the controlled enemy.
func (ai *EnemyAI) Enemy() *model.Enemy {
	return ai.enemy
}

// IsInert reports whether the controller lacks a collaborator and never acts.
func (ai *EnemyAI) IsInert() bool {
	return ai.inert
}

// Start starts the AI controller.
func (ai *EnemyAI) Start() {
	ai.isRunning.Store(true)

	if IsDebugEnabled() {
		slog.Debug("enemy AI started",
			"enemy", ai.enemy.Name(),
			"objectID", ai.enemy.ObjectID(),
			"aggroRange", ai.aggro.AggroRange(),
			"aggroBreakRange", ai.aggro.AggroBreakRange())
	}
}

// Stop stops the AI controller and drops aggro.
func (ai *EnemyAI) Stop() {
	ai.isRunning.Store(false)
	ai.aggro.Reset()

	if IsDebugEnabled() {
		slog.Debug("enemy AI stopped",
			"enemy", ai.enemy.Name(),
			"objectID", ai.enemy.ObjectID())
	}
}

// State returns current aggro state.
func (ai *EnemyAI) State() model.AggroState {
	return ai.aggro.State()
}

// Update decrements the attack cooldown, then re-evaluates aggro against the
// latest target distance.
func (ai *EnemyAI) Update(dt float64) {
	if !ai.active() {
		return
	}

	ai.enemy.TickCooldown(dt)
	ai.evaluateAggro()
}

// FixedUpdate chases or attacks while aggroed.
func (ai *EnemyAI) FixedUpdate(dt float64) {
	if !ai.active() || !ai.aggro.IsAggroed() {
		return
	}

	pos := ai.enemy.Position()
	toTarget := ai.target.Position().Sub(pos)

	if toTarget.Len() > ai.enemy.AttackRange() {
		ai.chase(toTarget.Normalized(), dt)
		return
	}

	ai.attack()
}

// Tick runs Update then FixedUpdate with the same dt, for hosts with a single clock.
func (ai *EnemyAI) Tick(dt float64) {
	ai.Update(dt)
	ai.FixedUpdate(dt)
}

func (ai *EnemyAI) active() bool {
	return ai.isRunning.Load() && !ai.inert && !ai.enemy.IsDead()
}

func (ai *EnemyAI) evaluateAggro() {
	// A dead target is never chased again.
	if ai.target.IsDead() {
		if ai.aggro.IsAggroed() {
			ai.aggro.Reset()
			if IsDebugEnabled() {
				slog.Debug("enemy target died, dropping aggro",
					"enemy", ai.enemy.Name(),
					"objectID", ai.enemy.ObjectID(),
					"targetID", ai.target.ObjectID())
			}
		}
		return
	}

	distance := ai.enemy.Position().DistanceTo(ai.target.Position())
	state, changed := ai.aggro.Evaluate(distance)

	if changed && IsDebugEnabled() {
		slog.Debug("enemy aggro changed",
			"enemy", ai.enemy.Name(),
			"objectID", ai.enemy.ObjectID(),
			"to", state,
			"distance", distance)
	}
}

// chase turns toward the target by at most rotationSpeed*dt degrees and moves
// moveSpeed*dt along the direction to the target.
func (ai *EnemyAI) chase(dir model.Vec2, dt float64) {
	ai.enemy.Steer(
		model.FacingAngle(dir),
		ai.enemy.RotationSpeed()*dt,
		dir.Scale(ai.enemy.MoveSpeed()*dt),
	)
}

// attack fires through the cooldown gate. A closed gate is silent.
func (ai *EnemyAI) attack() {
	if !ai.enemy.TryConsumeAttack() {
		return
	}

	damage := ai.enemy.AttackDamage()
	wasDead := ai.target.IsDead()
	if err := ai.target.ApplyDamage(damage); err != nil {
		slog.Error("enemy attack rejected",
			"enemy", ai.enemy.Name(),
			"objectID", ai.enemy.ObjectID(),
			"targetID", ai.target.ObjectID(),
			"error", err)
		return
	}

	hit := model.HitEvent{
		AttackerID: ai.enemy.ObjectID(),
		TargetID:   ai.target.ObjectID(),
		Damage:     damage,
		Killed:     !wasDead && ai.target.IsDead(),
	}

	if IsDebugEnabled() {
		slog.Debug("enemy attacked target",
			"enemy", ai.enemy.Name(),
			"objectID", hit.AttackerID,
			"targetID", hit.TargetID,
			"damage", hit.Damage,
			"killed", hit.Killed)
	}

	if ai.hitObserver != nil {
		ai.hitObserver(hit)
	}
}
