package model

import (
	"errors"
	"fmt"
)

// ErrInvalidAggroRange is returned when the break range is below the aggro range.
var ErrInvalidAggroRange = errors.New("invalid aggro range")

// AggroState is the enemy's pursuit decision.
type AggroState int32

const (
	// AggroIdle - enemy does not pursue its target
	AggroIdle AggroState = iota
	// AggroChasing - enemy pursues and attacks its target
	AggroChasing
)

// String returns human-readable state name
func (s AggroState) String() string {
	switch s {
	case AggroIdle:
		return "IDLE"
	case AggroChasing:
		return "CHASING"
	default:
		return "UNKNOWN"
	}
}

// Aggro is the distance-based chase decision of one enemy.
//
// Enter chase at distance <= aggroRange, leave it at distance > aggroBreakRange.
// Inside (aggroRange, aggroBreakRange] the state is sticky, which keeps an enemy
// from flickering at the boundary. Aggro owns no positions; callers pass the
// current distance each tick.
type Aggro struct {
	aggroRange      float64
	aggroBreakRange float64
	state           AggroState
}

// NewAggro creates an Aggro in the Idle state.
func NewAggro(aggroRange, aggroBreakRange float64) (*Aggro, error) {
	if !(aggroRange >= 0) {
		return nil, fmt.Errorf("%w: aggro range %v must be non-negative", ErrInvalidAggroRange, aggroRange)
	}
	if !(aggroBreakRange >= aggroRange) {
		return nil, fmt.Errorf("%w: break range %v below aggro range %v",
			ErrInvalidAggroRange, aggroBreakRange, aggroRange)
	}
	return &Aggro{
		aggroRange:      aggroRange,
		aggroBreakRange: aggroBreakRange,
	}, nil
}

// Evaluate applies the transition rule for the given target distance and
// reports the resulting state and whether it changed.
func (a *Aggro) Evaluate(distance float64) (AggroState, bool) {
	switch a.state {
	case AggroIdle:
		if distance <= a.aggroRange {
			a.state = AggroChasing
			return a.state, true
		}
	case AggroChasing:
		if distance > a.aggroBreakRange {
			a.state = AggroIdle
			return a.state, true
		}
	}
	return a.state, false
}

// State returns the current state.
func (a *Aggro) State() AggroState {
	return a.state
}

// IsAggroed reports whether the enemy is chasing.
func (a *Aggro) IsAggroed() bool {
	return a.state == AggroChasing
}

// Reset drops back to Idle.
func (a *Aggro) Reset() {
	a.state = AggroIdle
}

// AggroRange returns the enter-chase threshold.
func (a *Aggro) AggroRange() float64 {
	return a.aggroRange
}

// AggroBreakRange returns the exit-chase threshold.
func (a *Aggro) AggroBreakRange() float64 {
	return a.aggroBreakRange
}
