package sim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/topdown/internal/ai"
)

// stepEpsilon absorbs float drift when frame time is a multiple of the step.
const stepEpsilon = 1e-9

// Clock converts variable frame time into a whole number of fixed steps.
type Clock struct {
	FixedStep float64 // seconds
	MaxSteps  int     // fixed steps per Advance cap

	accumulator float64
	dropped     float64
}

// NewClock creates a clock with the given fixed step in seconds.
func NewClock(fixedStep float64, maxSteps int) (*Clock, error) {
	if !(fixedStep > 0) {
		return nil, fmt.Errorf("fixed step must be positive, got %v", fixedStep)
	}
	if maxSteps < 1 {
		return nil, fmt.Errorf("max steps must be positive, got %d", maxSteps)
	}
	return &Clock{FixedStep: fixedStep, MaxSteps: maxSteps}, nil
}

// Advance adds frameDt seconds and returns how many fixed steps are due.
// Time beyond MaxSteps steps is dropped so a slow frame cannot snowball.
// Non-positive frameDt is ignored.
func (c *Clock) Advance(frameDt float64) int {
	if !(frameDt > 0) {
		return 0
	}

	c.accumulator += frameDt

	steps := 0
	for steps < c.MaxSteps && c.accumulator >= c.FixedStep-stepEpsilon {
		c.accumulator -= c.FixedStep
		steps++
	}
	if c.accumulator < 0 {
		c.accumulator = 0
	}

	if c.accumulator >= c.FixedStep {
		excess := math.Floor((c.accumulator+stepEpsilon)/c.FixedStep) * c.FixedStep
		c.accumulator = max(0, c.accumulator-excess)
		c.dropped += excess

		if ai.IsDebugEnabled() {
			slog.Debug("clock dropped frame time",
				"excess", excess,
				"maxSteps", c.MaxSteps)
		}
	}

	return steps
}

// Alpha returns the leftover fraction of a fixed step, in [0, 1).
func (c *Clock) Alpha() float64 {
	return c.accumulator / c.FixedStep
}

// Dropped returns total seconds discarded by the MaxSteps cap.
func (c *Clock) Dropped() float64 {
	return c.dropped
}
