package narrative

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/harmonylink/panel"
	"github.com/lixenwraith/harmonylink/vmath"
)

// Reveal selects when a step's panel batch is applied
type Reveal string

const (
	// RevealGate applies panels as soon as the gate opens; the delay only holds the cursor
	RevealGate Reveal = "gate"

	// RevealDelay applies panels when the step's timer fires
	RevealDelay Reveal = "delay"
)

// OneShotEffect is an eased translation started when a step's gate opens
type OneShotEffect struct {
	TargetObjectID string
	Translate      vmath.Vec3
	Duration       time.Duration
	Ease           string
}

// Step is one beat of the linear narrative
type Step struct {
	ID                  string
	RequiredPriorStepID string // Empty only for the first step

	PanelsToHide []string
	PanelsToShow []string

	Delay  time.Duration
	Effect *OneShotEffect

	// RequiresConnection adds connected==true to the gate
	RequiresConnection bool

	Reveal Reveal
}

// Change returns the step's panel batch
func (s Step) Change() panel.Change {
	return panel.Change{Hide: s.PanelsToHide, Show: s.PanelsToShow}
}

// ErrInvalidSteps wraps every step-chain validation failure
var ErrInvalidSteps = errors.New("invalid narrative steps")

// ValidateSteps enforces strict linear progression
// Each step must name its immediate predecessor; the first names none
func ValidateSteps(steps []Step) error {
	var errs []error
	seen := make(map[string]int, len(steps))

	for i, s := range steps {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("step %d: empty id", i))
			continue
		}
		if prev, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("step %d: id %q already used by step %d", i, s.ID, prev))
		}
		seen[s.ID] = i

		switch {
		case i == 0 && s.RequiredPriorStepID != "":
			errs = append(errs, fmt.Errorf("step %q: first step cannot require %q", s.ID, s.RequiredPriorStepID))
		case i > 0 && s.RequiredPriorStepID != steps[i-1].ID:
			errs = append(errs, fmt.Errorf("step %q: requires %q, want immediate predecessor %q", s.ID, s.RequiredPriorStepID, steps[i-1].ID))
		}

		if s.Delay < 0 {
			errs = append(errs, fmt.Errorf("step %q: negative delay %v", s.ID, s.Delay))
		}
		switch s.Reveal {
		case "", RevealGate, RevealDelay:
		default:
			errs = append(errs, fmt.Errorf("step %q: unknown reveal %q", s.ID, s.Reveal))
		}
		if s.Effect != nil {
			if s.Effect.TargetObjectID == "" {
				errs = append(errs, fmt.Errorf("step %q: effect has no target", s.ID))
			}
			if s.Effect.Duration < 0 {
				errs = append(errs, fmt.Errorf("step %q: negative effect duration %v", s.ID, s.Effect.Duration))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSteps, errors.Join(errs...))
	}
	return nil
}
