package session

import (
	"log"

	"github.com/lixenwraith/harmonylink/audio"
	"github.com/lixenwraith/harmonylink/event"
	"github.com/lixenwraith/harmonylink/panel"
	"github.com/lixenwraith/harmonylink/script"
	"github.com/lixenwraith/harmonylink/vmath"
)

// dragState tracks the object under the pointer between drag start and end
type dragState struct {
	target string
	depth  float64
	offset vmath.Vec3
}

func registerHandlers(r *event.Router[*Session]) {
	r.Register(event.HandlerFunc[*Session]{Types: []event.EventType{event.EventScroll}, Fn: (*Session).handleScroll})
	r.Register(event.HandlerFunc[*Session]{Types: []event.EventType{event.EventPointerMove}, Fn: (*Session).handlePointerMove})
	r.Register(event.HandlerFunc[*Session]{Types: []event.EventType{event.EventDragStart}, Fn: (*Session).handleDragStart})
	r.Register(event.HandlerFunc[*Session]{Types: []event.EventType{event.EventDragEnd}, Fn: (*Session).handleDragEnd})
	r.Register(event.HandlerFunc[*Session]{Types: []event.EventType{event.EventResize}, Fn: (*Session).handleResize})
	r.Register(event.HandlerFunc[*Session]{
		Types: []event.EventType{event.EventReset},
		Fn:    func(s *Session, _ event.Event) { s.Reset() },
	})
	r.Register(event.HandlerFunc[*Session]{
		Types: []event.EventType{event.EventQuit},
		Fn:    func(s *Session, _ event.Event) { s.quit = true },
	})
}

// handleScroll feeds the gauge and issues a gate check at saturation
func (s *Session) handleScroll(ev event.Event) {
	st := s.gauge.ApplyScroll(ev.DeltaY, s.connected)
	if !st.Accepted {
		return
	}

	if st.Crossed {
		log.Printf("[session] fog ceiling reached (connected=%v)", s.connected)
		if !s.connected {
			s.board.Show(script.PanelSignal)
			s.gauge.SetSignalLost(true)
			s.indicatorLit = true
			s.cues.Play(audio.CueSignalLost)
		}
	}
	if st.Flickered {
		if st.SignalLostVisible {
			s.board.Show(script.PanelSignal)
		} else {
			s.board.Hide(script.PanelSignal)
		}
	}

	if st.Saturated {
		s.sequencer.Gate(true, s.connected)
	}
}

func (s *Session) handlePointerMove(ev event.Event) {
	s.pointer = vmath.Vec2{X: ev.PointerX, Y: ev.PointerY}
	if s.drag.target == "" {
		return
	}
	obj, ok := s.scene.Object(s.drag.target)
	if !ok {
		return
	}
	cam := s.scene.Camera
	obj.Position = vmath.V3Add(cam.PointAtDepth(s.pointer, s.drag.depth), s.drag.offset)
}

// handleDragStart grabs the named object, or the nearest draggable object under the pointer
func (s *Session) handleDragStart(ev event.Event) {
	s.pointer = vmath.Vec2{X: ev.PointerX, Y: ev.PointerY}

	target := ev.Target
	if target == "" {
		target = s.pick(s.pointer)
	}
	if target == "" || !s.draggable(target) {
		return
	}
	obj, ok := s.scene.Object(target)
	if !ok {
		return
	}

	cam := s.scene.Camera
	depth := cam.Depth(obj.Position)
	s.drag = dragState{
		target: target,
		depth:  depth,
		offset: vmath.V3Sub(obj.Position, cam.PointAtDepth(s.pointer, depth)),
	}
	s.board.Hide(script.PanelInstructionText)
}

// handleDragEnd evaluates the link and applies the connection side effects
func (s *Session) handleDragEnd(ev event.Event) {
	s.pointer = vmath.Vec2{X: ev.PointerX, Y: ev.PointerY}
	if s.drag.target == "" {
		return
	}
	s.drag = dragState{}

	cs := s.detector.Evaluate(s.pointer, s.scene.Camera,
		s.scene.Asset(script.ObjectPhone), s.scene.Asset(script.ObjectLink))
	s.setConnected(cs.Connected)
}

func (s *Session) setConnected(connected bool) {
	rising := connected && !s.connected
	s.connected = connected
	s.indicatorLit = true

	if connected {
		s.board.Apply(panel.Change{Hide: []string{script.PanelSignal}, Show: []string{script.PanelLinkSignal}})
		s.gauge.SetSignalLost(false)
	} else {
		s.board.Apply(panel.Change{Hide: []string{script.PanelLinkSignal}, Show: []string{script.PanelSignal}})
		s.gauge.SetSignalLost(true)
	}
	log.Printf("[signal] connected=%v", connected)

	if rising {
		s.cues.Play(audio.CueConnected)
		if s.gauge.Saturated() {
			s.sequencer.Gate(true, true)
		}
	}
}

func (s *Session) handleResize(ev event.Event) {
	if ev.Width <= 0 || ev.Height <= 0 {
		return
	}
	s.width, s.height = ev.Width, ev.Height
	s.scene.Camera.SetViewport(ev.Width, ev.Height)
}

// pick returns the closest draggable object hit by the ray through pointer
func (s *Session) pick(pointer vmath.Vec2) string {
	ray := s.scene.Camera.Ray(pointer)
	best, bestT := "", 0.0
	for _, o := range s.script.Objects {
		if !o.Draggable {
			continue
		}
		obj, ok := s.scene.Object(o.ID)
		if !ok {
			continue
		}
		if t, hit := vmath.IntersectRayAABB(ray, obj.Bounds()); hit && (best == "" || t < bestT) {
			best, bestT = o.ID, t
		}
	}
	return best
}

func (s *Session) draggable(id string) bool {
	for _, o := range s.script.Objects {
		if o.ID == id {
			return o.Draggable
		}
	}
	return false
}
