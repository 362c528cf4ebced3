package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a sine wave with a linear fade-out.
type tone struct {
	freq     float64
	phase    float64
	position int
	duration int
	rate     beep.SampleRate
}

// newTone creates a finite sine streamer.
func newTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}

		envelope := 1 - float64(t.position)/float64(t.duration)
		val := math.Sin(2*math.Pi*t.phase) * envelope

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume scales s by vol in (0, 1]. vol <= 0 is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
