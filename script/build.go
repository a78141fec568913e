package script

import (
	"time"

	"github.com/lixenwraith/harmonylink/narrative"
	"github.com/lixenwraith/harmonylink/projection"
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/vmath"
)

// V converts to a vector
func (v Vec) V() vmath.Vec3 {
	return vmath.V3(v[0], v[1], v[2])
}

// NarrativeSteps converts the step list; delays are whole milliseconds
func (s *Script) NarrativeSteps() []narrative.Step {
	steps := make([]narrative.Step, len(s.Steps))
	for i, st := range s.Steps {
		reveal := narrative.Reveal(st.Reveal)
		if reveal == "" {
			reveal = narrative.RevealGate
		}
		steps[i] = narrative.Step{
			ID:                  st.ID,
			RequiredPriorStepID: st.After,
			PanelsToHide:        append([]string(nil), st.Hide...),
			PanelsToShow:        append([]string(nil), st.Show...),
			Delay:               time.Duration(st.DelayMS) * time.Millisecond,
			RequiresConnection:  st.RequiresConnection,
			Reveal:              reveal,
		}
		if e := st.Effect; e != nil {
			steps[i].Effect = &narrative.OneShotEffect{
				TargetObjectID: e.Target,
				Translate:      e.Translate.V(),
				Duration:       time.Duration(e.DurationMS) * time.Millisecond,
				Ease:           e.Ease,
			}
		}
	}
	return steps
}

// AnchorPoints returns the projection anchors in script order
func (s *Script) AnchorPoints() []projection.AnchorPoint {
	out := make([]projection.AnchorPoint, len(s.Anchors))
	for i, a := range s.Anchors {
		out[i] = projection.AnchorPoint{WorldPosition: a.Position.V(), BoundUIElementID: a.Element}
	}
	return out
}

// NewCamera builds the camera for the given aspect ratio
func (s *Script) NewCamera(aspect float64) *scene.Camera {
	c := s.Camera
	return scene.NewCamera(c.Position.V(), c.Target.V(), c.FOV, aspect, c.Near, c.Far)
}

// Object builds a fresh scene object in its initial pose
func (o ObjectSpec) Object() *scene.Object {
	obj := scene.NewObject(o.ID, o.Position.V(), o.HalfExtents.V())
	if o.Scale != nil {
		obj.Scale = o.Scale.V()
	}
	return obj
}

// Loader serves every scripted object keyed by its model path
func (s *Script) Loader() *scene.StaticLoader {
	l := &scene.StaticLoader{Objects: make(map[string]*scene.Object, len(s.Objects))}
	for _, o := range s.Objects {
		l.Objects[o.Model] = o.Object()
	}
	return l
}

// PanelIDs returns panel IDs in script order
func (s *Script) PanelIDs() []string {
	ids := make([]string, len(s.Panels))
	for i, p := range s.Panels {
		ids[i] = p.ID
	}
	return ids
}
