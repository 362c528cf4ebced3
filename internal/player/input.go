package player

import (
	"sync"

	"github.com/udisondev/topdown/internal/model"
)

// InputEvent is a discrete player intent produced by an input source.
// Events only latch state; the controller consumes it on its next tick.
type InputEvent interface {
	apply(in *Input)
}

// MovementChanged sets the desired movement direction. Zero cancels movement.
type MovementChanged struct {
	Vector model.Vec2
}

// SprintStarted begins sprinting.
type SprintStarted struct{}

// SprintEnded stops sprinting.
type SprintEnded struct{}

// AttackTriggered queues one attack attempt.
type AttackTriggered struct{}

func (e MovementChanged) apply(in *Input) { in.move = e.Vector.Normalized() }
func (SprintStarted) apply(in *Input)     { in.sprinting = true }
func (SprintEnded) apply(in *Input)       { in.sprinting = false }
func (AttackTriggered) apply(in *Input)   { in.pendingAttacks++ }

// Input is the latched input state shared between the input source and the
// simulation tick. Last write wins.
type Input struct {
	mu             sync.Mutex
	move           model.Vec2 // unit length or zero
	sprinting      bool
	pendingAttacks int
}

// Apply latches one event.
func (in *Input) Apply(ev InputEvent) {
	if ev == nil {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	ev.apply(in)
}

// Movement returns the latched direction and sprint flag.
func (in *Input) Movement() (model.Vec2, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.move, in.sprinting
}

// TakeAttacks returns and clears the number of pending attack triggers.
func (in *Input) TakeAttacks() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := in.pendingAttacks
	in.pendingAttacks = 0
	return n
}
