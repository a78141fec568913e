package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue identifies a narrative sound
type Cue int

const (
	CueSignalLost Cue = iota // Fog ceiling crossed while disconnected
	CueConnected             // Drag release linked both objects
	CueRise                  // First step lifts the harmonylink
	CueReveal                // Step panels revealed
	cueCount
)

var cueNames = [cueCount]string{"signal_lost", "connected", "rise", "reveal"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// Cue timings
const (
	signalLostDuration = 220 * time.Millisecond
	signalLostAttack   = 5 * time.Millisecond
	signalLostRelease  = 60 * time.Millisecond

	chimeNoteDuration = 90 * time.Millisecond
	chimeAttack       = 2 * time.Millisecond
	chimeRelease      = 60 * time.Millisecond

	riseDuration = 1500 * time.Millisecond
	riseAttack   = 600 * time.Millisecond
	riseRelease  = 700 * time.Millisecond

	revealDuration = 400 * time.Millisecond
	revealAttack   = 3 * time.Millisecond
	revealRelease  = 350 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-length oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// sweep is a sine whose frequency glides linearly from start to end
type sweep struct {
	from, to float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewSweep creates a gliding sine oscillator
func NewSweep(from, to float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sweep{from: from, to: to, duration: rate.N(duration), rate: rate}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = val
		samples[i][1] = val

		frac := float64(s.position) / float64(s.duration)
		freq := s.from + (s.to-s.from)*frac
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain; zero or negative gain is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// createSignalLost is a low saw buzz
func createSignalLost(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(110, signalLostDuration, WaveSaw, rate)
	return newVolume(NewEnvelope(osc, signalLostDuration, signalLostAttack, signalLostRelease, rate), 0.5)
}

// createConnected is a rising two-note chime (E5, B5)
func createConnected(rate beep.SampleRate) beep.Streamer {
	n1 := NewEnvelope(NewOscillator(659.25, chimeNoteDuration, WaveSquare, rate), chimeNoteDuration, chimeAttack, chimeRelease, rate)
	n2 := NewEnvelope(NewOscillator(987.77, chimeNoteDuration*2, WaveSquare, rate), chimeNoteDuration*2, chimeAttack, chimeRelease*2, rate)
	return newVolume(beep.Seq(n1, n2), 0.35)
}

// createRise glides up alongside the harmonylink tween
func createRise(rate beep.SampleRate) beep.Streamer {
	s := NewSweep(90, 260, riseDuration, rate)
	return newVolume(NewEnvelope(s, riseDuration, riseAttack, riseRelease, rate), 0.4)
}

// createReveal is a bell with an octave overtone (A5, A6)
func createReveal(rate beep.SampleRate) beep.Streamer {
	fund := NewEnvelope(NewOscillator(880, revealDuration, WaveSine, rate), revealDuration, revealAttack, revealRelease, rate)
	over := NewEnvelope(NewOscillator(1760, revealDuration, WaveSine, rate), revealDuration, revealAttack, revealRelease/2, rate)
	return beep.Mix(newVolume(fund, 0.7*0.6), newVolume(over, 0.3*0.6))
}

// NewCueStreamer returns a fresh streamer for cue at unity master gain, nil for unknown cues
func NewCueStreamer(cue Cue, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case CueSignalLost:
		return createSignalLost(rate)
	case CueConnected:
		return createConnected(rate)
	case CueRise:
		return createRise(rate)
	case CueReveal:
		return createReveal(rate)
	default:
		return nil
	}
}
