package ai

import "github.com/udisondev/topdown/internal/model"

// Controller represents a per-entity AI driven by the simulation clock.
type Controller interface {
	// ObjectID returns the controlled entity's object ID
	ObjectID() uint32

	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// Update runs on the variable-timestep frame tick (cooldown, aggro)
	Update(dt float64)

	// FixedUpdate runs on the fixed-timestep tick (movement, attacks)
	FixedUpdate(dt float64)

	// State returns current aggro state
	State() model.AggroState
}

// Target is what an enemy pursues: a position plus the combat capability.
// Implemented by *model.Player.
type Target interface {
	ObjectID() uint32
	Position() model.Vec2
	model.Combatant
}

// HitObserver receives every attack an AI lands. nil disables reporting.
type HitObserver func(model.HitEvent)
