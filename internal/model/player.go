package model

import (
	"errors"
	"fmt"
)

// ErrInvalidSprint is returned for a sprint multiplier below 1.
var ErrInvalidSprint = errors.New("invalid sprint multiplier")

// PlayerTemplate describes the player character.
type PlayerTemplate struct {
	Name             string
	Stats            StatsTemplate
	Movement         MovementTemplate
	SprintMultiplier float64
	CanSprint        bool
}

// Validate checks stats, movement and sprint multiplier.
func (t PlayerTemplate) Validate() error {
	if err := t.Stats.Validate(); err != nil {
		return fmt.Errorf("player %q: %w", t.Name, err)
	}
	if err := t.Movement.Validate(); err != nil {
		return fmt.Errorf("player %q: %w", t.Name, err)
	}
	if !(t.SprintMultiplier >= 1) {
		return fmt.Errorf("player %q: %w: %v", t.Name, ErrInvalidSprint, t.SprintMultiplier)
	}
	return nil
}

// Player is the input-driven character.
type Player struct {
	*Character // embedded

	sprintMultiplier float64
	canSprint        bool
}

// NewPlayer creates a Player at pos from the template.
func NewPlayer(objectID uint32, tmpl PlayerTemplate, pos Vec2) (*Player, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	stats, err := NewStats(tmpl.Stats)
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", tmpl.Name, err)
	}

	ch, err := NewCharacter(objectID, tmpl.Name, pos, stats, tmpl.Movement)
	if err != nil {
		return nil, err
	}

	p := &Player{
		Character:        ch,
		sprintMultiplier: tmpl.SprintMultiplier,
		canSprint:        tmpl.CanSprint,
	}
	ch.WorldObject.Data = p

	return p, nil
}

// SprintMultiplier returns the speed factor applied while sprinting.
func (p *Player) SprintMultiplier() float64 {
	return p.sprintMultiplier
}

// CanSprint reports whether sprint input affects speed.
func (p *Player) CanSprint() bool {
	return p.canSprint
}

// EffectiveSpeed returns the movement speed for the given sprint latch.
func (p *Player) EffectiveSpeed(sprinting bool) float64 {
	if sprinting && p.canSprint {
		return p.MoveSpeed() * p.sprintMultiplier
	}
	return p.MoveSpeed()
}
