// Package session is the single-threaded actor that owns the narrative state.
// Input arrives through an MPSC queue; Tick drains it, fires due timers,
// advances tweens and re-projects the anchored panels.
package session

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/harmonylink/audio"
	"github.com/lixenwraith/harmonylink/engine"
	"github.com/lixenwraith/harmonylink/event"
	"github.com/lixenwraith/harmonylink/fog"
	"github.com/lixenwraith/harmonylink/narrative"
	"github.com/lixenwraith/harmonylink/panel"
	"github.com/lixenwraith/harmonylink/projection"
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/script"
	"github.com/lixenwraith/harmonylink/signal"
	"github.com/lixenwraith/harmonylink/status"
	"github.com/lixenwraith/harmonylink/tween"
	"github.com/lixenwraith/harmonylink/vmath"
)

// Options configures a Session; only Script is required
type Options struct {
	Script *script.Script
	Clock  engine.TimeProvider // Defaults to monotonic
	Loader scene.Loader        // Defaults to the script's static models
	Cues   audio.Cues          // Defaults to audio.Nop
	Status *status.Registry    // Defaults to a fresh registry

	// Viewport in projection units
	Width, Height int
}

// Session owns every state entity of one playthrough
// All methods except Push must be called from the loop goroutine
type Session struct {
	script *script.Script
	clock  engine.TimeProvider
	cues   audio.Cues
	status *status.Registry

	queue  *event.Queue
	router *event.Router[*Session]
	timers *engine.Timers

	scene     *scene.Scene
	animator  *tween.Animator
	gauge     *fog.Gauge
	detector  *signal.Detector
	sequencer *narrative.Sequencer
	projector *projection.Projector
	board     *panel.Board

	// Panels rendered at each anchor element
	anchored map[string][]string

	width, height int
	pointer       vmath.Vec2
	connected     bool
	indicatorLit  bool

	drag dragState
	quit bool

	frame  uint64
	events uint64
	stats  metrics
}

// New builds a session, starts loading every scripted object and starts the sequencer
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Script == nil {
		return nil, fmt.Errorf("session requires a script")
	}
	s := &Session{
		script: opts.Script,
		clock:  opts.Clock,
		cues:   opts.Cues,
		status: opts.Status,
		width:  opts.Width,
		height: opts.Height,
	}
	if s.clock == nil {
		s.clock = engine.NewMonotonicTimeProvider()
	}
	if s.cues == nil {
		s.cues = audio.Nop{}
	}
	if s.status == nil {
		s.status = status.NewRegistry()
	}
	loader := opts.Loader
	if loader == nil {
		loader = opts.Script.Loader()
	}

	s.queue = event.NewQueue()
	s.router = event.NewRouter[*Session](s.queue)
	s.timers = engine.NewTimers(s.clock)
	s.animator = tween.NewAnimator(s.clock)
	s.gauge = fog.NewGauge()
	s.detector = signal.NewDetector()
	s.board = panel.NewBoard(opts.Script.PanelIDs()...)
	s.projector = projection.NewProjector(opts.Script.AnchorPoints())

	aspect := 1.0
	if s.width > 0 && s.height > 0 {
		aspect = float64(s.width) / float64(s.height)
	}
	s.scene = scene.New(opts.Script.NewCamera(aspect))
	for _, o := range opts.Script.Objects {
		s.scene.Add(scene.LoadAsset(ctx, loader, o.ID, o.Model))
	}

	s.anchored = make(map[string][]string)
	for _, p := range opts.Script.Panels {
		s.anchored[p.At] = append(s.anchored[p.At], p.ID)
	}

	s.stats = newMetrics(s.status)
	registerHandlers(s.router)

	seq, err := narrative.NewSequencer(opts.Script.NarrativeSteps(), narrative.Deps{
		Panels:  s.board,
		Timers:  s.timers,
		Effects: s,
		Status:  s.status,
		Hooks: narrative.Hooks{
			OnBegin:    s.onStepBegin,
			OnReveal:   s.onStepReveal,
			OnComplete: s.onComplete,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build sequencer: %w", err)
	}
	s.sequencer = seq

	s.restorePanels()
	s.sequencer.Start()
	s.publish()
	return s, nil
}

// Ready blocks until every scripted object resolved or failed
// Returns the first load failure; the session remains usable without that object
func (s *Session) Ready(ctx context.Context) error {
	var first error
	for _, id := range s.scene.IDs() {
		if _, err := s.scene.Asset(id).Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if first == nil {
				first = fmt.Errorf("object %s: %w", id, err)
			}
		}
	}
	return first
}

// Push enqueues an input event; safe from any goroutine
func (s *Session) Push(ev event.Event) {
	if ev.Time.IsZero() {
		ev.Time = s.clock.Now()
	}
	s.queue.Push(ev)
}

// Tick runs one loop iteration; returns false once a quit event was consumed
func (s *Session) Tick() bool {
	s.events += uint64(s.router.DispatchAll(s))
	s.timers.Fire()
	s.animator.Update()
	s.placePanels()
	s.frame++
	s.publish()
	return !s.quit
}

// Reset discards every timer, tween and piece of narrative state and restarts the script
func (s *Session) Reset() {
	s.timers.Reset()
	s.animator.Reset()
	s.gauge.Reset()
	if err := s.sequencer.Reset(); err != nil {
		log.Printf("[session] sequencer reset: %v", err)
	}

	for _, o := range s.script.Objects {
		if obj, ok := s.scene.Object(o.ID); ok {
			start := o.Object()
			obj.Position = start.Position
			obj.Scale = start.Scale
		}
	}

	s.connected = false
	s.indicatorLit = false
	s.drag = dragState{}
	s.restorePanels()
	s.sequencer.Start()
	s.publish()
	log.Printf("[session] reset")
}

// RunEffect implements narrative.EffectRunner with the animator
func (s *Session) RunEffect(e narrative.OneShotEffect) bool {
	ease, err := tween.ParseEase(e.Ease)
	if err != nil {
		log.Printf("[session] %v, using linear", err)
		ease = tween.Linear
	}
	return s.animator.Translate(s.scene.Asset(e.TargetObjectID), e.Translate, e.Duration, ease)
}

// Accessors for the host renderer

func (s *Session) Camera() *scene.Camera { return s.scene.Camera }
func (s *Session) Scene() *scene.Scene { return s.scene }
func (s *Session) Board() *panel.Board { return s.board }
func (s *Session) Status() *status.Registry { return s.status }

// Connected reports the last drag-release evaluation
func (s *Session) Connected() bool {
	return s.connected
}

// Fog returns the current gauge reading
func (s *Session) Fog() fog.State {
	return s.gauge.State()
}

// Narrative returns the sequencer state
func (s *Session) Narrative() narrative.State {
	return s.sequencer.State()
}

// Indicator returns the sphere color name, "off" until first lit
func (s *Session) Indicator() string {
	if !s.indicatorLit {
		return "off"
	}
	return signal.ConnectionState{Connected: s.connected}.Indicator().String()
}

// restorePanels returns every panel to its scripted text and initial visibility
func (s *Session) restorePanels() {
	s.board.HideAll()
	var show []string
	for _, p := range s.script.Panels {
		s.board.SetText(p.ID, p.Text)
		if p.Visible {
			show = append(show, p.ID)
		}
	}
	s.board.Apply(panel.Change{Show: show})
}

// placePanels pins each panel to its anchor's projected offset
func (s *Session) placePanels() {
	for _, pl := range s.projector.ProjectAll(s.scene.Camera, s.width, s.height) {
		for _, id := range s.anchored[pl.ElementID] {
			s.board.Place(id, pl.X, pl.Y)
		}
	}
}

func (s *Session) onStepBegin(index int, step narrative.Step) {
	if step.Effect != nil {
		s.cues.Play(audio.CueRise)
	}
}

func (s *Session) onStepReveal(index int, step narrative.Step) {
	if len(step.PanelsToShow) > 0 {
		s.cues.Play(audio.CueReveal)
	}
}

func (s *Session) onComplete() {
	s.gauge.Freeze()
}

// metrics caches status pointers written every tick
type metrics struct {
	density   *status.AtomicFloat
	saturated *atomic.Bool
	connected *atomic.Bool
	indicator *status.AtomicString
	frames    *atomic.Int64
	events    *atomic.Int64
	dropped   *atomic.Int64
	tweens    *atomic.Int64
	timers    *atomic.Int64
}

func newMetrics(r *status.Registry) metrics {
	return metrics{
		density:   r.Floats.Get("fog.density"),
		saturated: r.Bools.Get("fog.saturated"),
		connected: r.Bools.Get("signal.connected"),
		indicator: r.Strings.Get("signal.indicator"),
		frames:    r.Ints.Get("session.frames"),
		events:    r.Ints.Get("session.events"),
		dropped:   r.Ints.Get("queue.dropped"),
		tweens:    r.Ints.Get("tween.active"),
		timers:    r.Ints.Get("timers.pending"),
	}
}

func (s *Session) publish() {
	s.stats.density.Set(s.gauge.Density())
	s.stats.saturated.Store(s.gauge.Saturated())
	s.stats.connected.Store(s.connected)
	s.stats.indicator.Store(s.Indicator())
	s.stats.frames.Store(int64(s.frame))
	s.stats.events.Store(int64(s.events))
	s.stats.dropped.Store(int64(s.queue.Dropped()))
	s.stats.tweens.Store(int64(s.animator.Active()))
	s.stats.timers.Store(int64(s.timers.Len()))
}
