package session

import (
	"log"

	"github.com/jinzhu/copier"

	"github.com/lixenwraith/harmonylink/fog"
	"github.com/lixenwraith/harmonylink/narrative"
	"github.com/lixenwraith/harmonylink/panel"
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/status"
	"github.com/lixenwraith/harmonylink/vmath"
)

// ObjectPose is a detached copy of a resolved object's transform
type ObjectPose struct {
	ID          string
	Position    vmath.Vec3
	Scale       vmath.Vec3
	HalfExtents vmath.Vec3
}

// Snapshot is a frame-consistent copy of the session, safe to keep after the next Tick
type Snapshot struct {
	Frame     uint64
	Fog       fog.State
	Connected bool
	Indicator string
	Narrative narrative.State
	Panels    []panel.State
	Objects   []ObjectPose
	Metrics   []status.Metric
	Pointer   vmath.Vec2
	Dragging  string

	Width, Height int
}

// Snapshot copies the current state for rendering and tests
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:     s.frame,
		Fog:       s.gauge.State(),
		Connected: s.connected,
		Indicator: s.Indicator(),
		Narrative: s.sequencer.State(),
		Panels:    s.board.Snapshot(),
		Metrics:   s.status.Snapshot(),
		Pointer:   s.pointer,
		Dragging:  s.drag.target,
		Width:     s.width,
		Height:    s.height,
	}

	objs := make([]*scene.Object, 0, len(s.script.Objects))
	for _, id := range s.scene.IDs() {
		if obj, ok := s.scene.Object(id); ok {
			objs = append(objs, obj)
		}
	}
	if err := copier.CopyWithOption(&snap.Objects, objs, copier.Option{DeepCopy: true}); err != nil {
		log.Printf("[session] snapshot objects: %v", err)
	}
	return snap
}

// Object returns the pose of id from the snapshot
func (snap Snapshot) Object(id string) (ObjectPose, bool) {
	for _, o := range snap.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return ObjectPose{}, false
}

// Panel returns the panel state of id from the snapshot
func (snap Snapshot) Panel(id string) (panel.State, bool) {
	for _, p := range snap.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return panel.State{}, false
}
