package script

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/lixenwraith/harmonylink/narrative"
	"github.com/lixenwraith/harmonylink/tween"
)

// Validate reports every problem in the script as one joined error wrapping ErrInvalid
func (s *Script) Validate() error {
	var errs []error

	panels := make(map[string]bool, len(s.Panels))
	for i, p := range s.Panels {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("panel %d: empty id", i))
			continue
		}
		if panels[p.ID] {
			errs = append(errs, fmt.Errorf("panel %q: duplicate id", p.ID))
		}
		panels[p.ID] = true
	}
	panelIDs := keys(panels)

	for _, id := range []string{PanelSignal, PanelLinkSignal, PanelInstructionText} {
		if !panels[id] {
			errs = append(errs, fmt.Errorf("missing required panel %q", id))
		}
	}

	anchors := make(map[string]bool, len(s.Anchors))
	for i, a := range s.Anchors {
		switch {
		case a.Element == "":
			errs = append(errs, fmt.Errorf("anchor %d: empty element", i))
		case !panels[a.Element]:
			errs = append(errs, fmt.Errorf("anchor %d: unknown panel %q%s", i, a.Element, suggest(a.Element, panelIDs)))
		case anchors[a.Element]:
			errs = append(errs, fmt.Errorf("anchor %q: duplicate element", a.Element))
		}
		anchors[a.Element] = true
	}
	for _, p := range s.Panels {
		if p.At != "" && p.At != p.ID && !anchors[p.At] {
			errs = append(errs, fmt.Errorf("panel %q: unknown anchor %q%s", p.ID, p.At, suggest(p.At, keys(anchors))))
		}
	}

	objects := make(map[string]bool, len(s.Objects))
	for i, o := range s.Objects {
		if o.ID == "" {
			errs = append(errs, fmt.Errorf("object %d: empty id", i))
			continue
		}
		if objects[o.ID] {
			errs = append(errs, fmt.Errorf("object %q: duplicate id", o.ID))
		}
		objects[o.ID] = true
		if o.Model == "" {
			errs = append(errs, fmt.Errorf("object %q: empty model path", o.ID))
		}
		for axis, v := range o.HalfExtents {
			if v < 0 {
				errs = append(errs, fmt.Errorf("object %q: negative half extent on axis %d", o.ID, axis))
			}
		}
	}
	objectIDs := keys(objects)
	for _, id := range []string{ObjectPhone, ObjectLink} {
		if !objects[id] {
			errs = append(errs, fmt.Errorf("missing required object %q", id))
		}
	}

	if s.Camera.FOV <= 0 || s.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera: fov %v out of range (0, 180)", s.Camera.FOV))
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: invalid clip range near=%v far=%v", s.Camera.Near, s.Camera.Far))
	}

	eases := tween.EaseNames()
	for _, st := range s.Steps {
		for _, id := range st.Hide {
			if !panels[id] {
				errs = append(errs, fmt.Errorf("step %q: hide unknown panel %q%s", st.ID, id, suggest(id, panelIDs)))
			}
		}
		for _, id := range st.Show {
			if !panels[id] {
				errs = append(errs, fmt.Errorf("step %q: show unknown panel %q%s", st.ID, id, suggest(id, panelIDs)))
			}
		}
		if st.Effect != nil {
			if !objects[st.Effect.Target] {
				errs = append(errs, fmt.Errorf("step %q: effect targets unknown object %q%s", st.ID, st.Effect.Target, suggest(st.Effect.Target, objectIDs)))
			}
			if _, err := tween.ParseEase(st.Effect.Ease); err != nil {
				errs = append(errs, fmt.Errorf("step %q: %w%s", st.ID, err, suggest(st.Effect.Ease, eases)))
			}
		}
	}

	if err := narrative.ValidateSteps(s.NarrativeSteps()); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// suggest returns a " (did you mean ...)" hint for the closest candidate within edit distance
func suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(name, c)
		if dist > levenshteinLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// keys returns sorted map keys so suggestions are deterministic on ties
func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
