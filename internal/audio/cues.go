package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/udisondev/topdown/internal/model"
)

const sampleRate = beep.SampleRate(44100)

// Cue frequencies and lengths.
const (
	hitFreq        = 660.0
	killFreq       = 330.0
	playerDownFreq = 110.0

	hitLength   = 60 * time.Millisecond
	deathLength = 250 * time.Millisecond
)

// Cues plays short combat sound cues through the system speaker.
// Until Init succeeds every cue is a no-op.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewCues creates cues at volume in (0, 1].
func NewCues(volume float64) *Cues {
	return &Cues{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Init opens the speaker. Failure leaves cues silent.
func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences pending cues.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Hit plays the landed-attack cue.
func (c *Cues) Hit(hit model.HitEvent) {
	freq := hitFreq
	if hit.Killed {
		freq = killFreq
	}
	c.play(newTone(freq, hitLength, sampleRate))
}

// Death plays the death cue. The player's death is lower and longer.
func (c *Cues) Death(_ uint32, isPlayer bool) {
	if !isPlayer {
		return
	}
	c.play(newTone(playerDownFreq, deathLength, sampleRate))
}

func (c *Cues) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(withVolume(s, c.volume))
	speaker.Unlock()
}

// Enabled reports whether the speaker is open.
func (c *Cues) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}
