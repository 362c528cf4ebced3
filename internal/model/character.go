package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMovement is returned for non-positive move or rotation speeds.
var ErrInvalidMovement = errors.New("invalid movement parameters")

// MovementTemplate holds the locomotion values shared by players and enemies.
type MovementTemplate struct {
	MoveSpeed     float64 // units per second
	RotationSpeed float64 // max degrees per second
}

// Validate checks that both speeds are positive.
func (t MovementTemplate) Validate() error {
	if !(t.MoveSpeed > 0) {
		return fmt.Errorf("%w: move speed %v must be positive", ErrInvalidMovement, t.MoveSpeed)
	}
	if !(t.RotationSpeed > 0) {
		return fmt.Errorf("%w: rotation speed %v must be positive", ErrInvalidMovement, t.RotationSpeed)
	}
	return nil
}

// Character is the base type for combat entities (Player, Enemy).
// It adds Stats and movement parameters to WorldObject.
type Character struct {
	*WorldObject // embedded
	*Stats       // embedded, nil means the entity has no stats component

	movement MovementTemplate
}

// NewCharacter creates a character. stats may be nil; such a character is
// never combat-capable and its controllers stay inert.
func NewCharacter(objectID uint32, name string, pos Vec2, stats *Stats, movement MovementTemplate) (*Character, error) {
	if err := movement.Validate(); err != nil {
		return nil, fmt.Errorf("character %q: %w", name, err)
	}
	return &Character{
		WorldObject: NewWorldObject(objectID, name, pos),
		Stats:       stats,
		movement:    movement,
	}, nil
}

// HasStats reports whether a stats component is attached.
func (c *Character) HasStats() bool {
	return c.Stats != nil
}

// MoveSpeed returns movement speed in units per second.
func (c *Character) MoveSpeed() float64 {
	return c.movement.MoveSpeed
}

// RotationSpeed returns max turn rate in degrees per second.
func (c *Character) RotationSpeed() float64 {
	return c.movement.RotationSpeed
}

// IsDead reports whether the character died. Characters without stats never die.
func (c *Character) IsDead() bool {
	if c.Stats == nil {
		return false
	}
	return c.Stats.IsDead()
}
