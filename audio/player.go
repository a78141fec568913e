// Package audio synthesizes the narrative's sound cues with beep.
package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// DefaultSampleRate is used when the configured rate is not positive
const DefaultSampleRate = beep.SampleRate(48000)

// Cues plays narrative sounds; implementations must not block the caller
type Cues interface {
	Play(cue Cue)
}

// Nop discards every cue
type Nop struct{}

// Play implements Cues
func (Nop) Play(Cue) {}

// Player mixes cues into the speaker
// Every method is safe to call before Initialize or after Close
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player; volume is linear gain in [0, 1]
func NewPlayer(rate beep.SampleRate, volume float64) *Player {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Player{
		rate:   rate,
		volume: clamp01(volume),
		mixer:  &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	log.Printf("[audio] speaker ready at %d Hz, volume %.2f", p.rate, p.volume)
	return nil
}

// Close silences every active cue
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Play implements Cues
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.volume <= 0 {
		return
	}
	s := NewCueStreamer(cue, p.rate)
	if s == nil {
		return
	}

	speaker.Lock()
	p.mixer.Add(newVolume(s, p.volume))
	speaker.Unlock()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
