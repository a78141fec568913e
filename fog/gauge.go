// Package fog accumulates scroll input into the fog density that serves as
// the narrative's progress clock.
package fog

import "math"

const (
	// MaxDensity is the ceiling that opens the narrative gate
	MaxDensity = 0.04

	// Increment is added per positive scroll event
	Increment = 0.001

	// FlickerFloor is the lower bound of the signal-lost flicker band (exclusive)
	FlickerFloor = 0.015
)

// Density is tracked in whole increments so band edges are exact
var (
	ceilingTicks = int(math.Round(MaxDensity / Increment))
	floorTicks   = int(math.Round(FlickerFloor / Increment))
)

// State is the gauge reading returned after each scroll
type State struct {
	Density    float64
	MaxDensity float64

	// Saturated holds while density sits at the ceiling
	Saturated bool

	// Crossed is true only for the scroll that reached the ceiling
	Crossed bool

	// Accepted reports whether this scroll changed or re-asserted the gauge
	// False for non-positive deltas and after Freeze
	Accepted bool

	// SignalLostVisible is the explicit flicker state of the "signal lost" indicator
	SignalLostVisible bool

	// Flickered is true when this scroll toggled SignalLostVisible
	Flickered bool
}

// Gauge owns the fog density
// Not safe for concurrent use; the session loop is the only caller
type Gauge struct {
	ticks      int
	saturated  bool
	frozen     bool
	signalLost bool
}

// NewGauge creates a gauge at zero density
func NewGauge() *Gauge {
	return &Gauge{}
}

// ApplyScroll feeds one wheel event; only the sign of deltaY is used
// connected suppresses the signal-lost flicker
func (g *Gauge) ApplyScroll(deltaY float64, connected bool) State {
	if sign(deltaY) <= 0 || g.frozen {
		return g.state(false, false, false)
	}

	crossed := false
	g.ticks++
	if g.ticks >= ceilingTicks {
		g.ticks = ceilingTicks
		if !g.saturated {
			crossed = true
		}
		g.saturated = true
	}

	flickered := false
	if g.ticks > floorTicks && g.ticks < ceilingTicks && !connected {
		g.signalLost = !g.signalLost
		flickered = true
	}

	return g.state(true, crossed, flickered)
}

// State returns the current reading without mutating
func (g *Gauge) State() State {
	return g.state(false, false, false)
}

// Density returns the current density
func (g *Gauge) Density() float64 {
	if g.ticks >= ceilingTicks {
		return MaxDensity
	}
	return float64(g.ticks) * Increment
}

// Saturated reports whether the ceiling has been reached
func (g *Gauge) Saturated() bool {
	return g.saturated
}

// SetSignalLost forces the flicker state, used when connection state changes
func (g *Gauge) SetSignalLost(visible bool) {
	g.signalLost = visible
}

// Freeze permanently stops accumulation; the narrative is complete
func (g *Gauge) Freeze() {
	g.frozen = true
}

// Frozen reports whether Freeze was called
func (g *Gauge) Frozen() bool {
	return g.frozen
}

// Reset returns the gauge to its initial state
func (g *Gauge) Reset() {
	*g = Gauge{}
}

func (g *Gauge) state(accepted, crossed, flickered bool) State {
	return State{
		Density:           g.Density(),
		MaxDensity:        MaxDensity,
		Saturated:         g.saturated,
		Crossed:           crossed,
		Accepted:          accepted,
		SignalLostVisible: g.signalLost,
		Flickered:         flickered,
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
