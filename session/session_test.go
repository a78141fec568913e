package session

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/lixenwraith/harmonylink/engine"
	"github.com/lixenwraith/harmonylink/event"
	"github.com/lixenwraith/harmonylink/narrative"
	"github.com/lixenwraith/harmonylink/projection"
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/script"
	"github.com/lixenwraith/harmonylink/vmath"
)

const (
	testWidth  = 1280
	testHeight = 720
)

type fixture struct {
	t     *testing.T
	clock *engine.MockTimeProvider
	s     *Session
}

func newFixture(t *testing.T, loader scene.Loader) *fixture {
	t.Helper()
	sc, err := script.Default()
	if err != nil {
		t.Fatalf("Default script: %v", err)
	}
	clock := engine.NewMockTimeProvider(time.Unix(1000, 0))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	s, err := New(ctx, Options{
		Script: sc,
		Clock:  clock,
		Loader: loader,
		Width:  testWidth,
		Height: testHeight,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Ready(ctx); err != nil && loader == nil {
		t.Fatalf("Ready: %v", err)
	}
	return &fixture{t: t, clock: clock, s: s}
}

func (f *fixture) scroll(n int) {
	for i := 0; i < n; i++ {
		f.s.Push(event.Event{Type: event.EventScroll, DeltaY: 100})
	}
	f.s.Tick()
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.s.Tick()
}

func (f *fixture) ndc(p vmath.Vec3) vmath.Vec2 {
	clip, w := f.s.Camera().ViewProjection().MulPoint(p)
	return vmath.Vec2{X: clip.X / w, Y: clip.Y / w}
}

func (f *fixture) position(id string) vmath.Vec3 {
	obj, ok := f.s.Scene().Object(id)
	if !ok {
		f.t.Fatalf("object %s not resolved", id)
	}
	return obj.Position
}

// dragLinkTo drags the harmonylink from its projected center to the pointer
func (f *fixture) dragLinkTo(to vmath.Vec2) {
	from := f.ndc(f.position(script.ObjectLink))
	f.s.Push(event.Event{Type: event.EventDragStart, PointerX: from.X, PointerY: from.Y})
	f.s.Push(event.Event{Type: event.EventPointerMove, PointerX: to.X, PointerY: to.Y})
	f.s.Push(event.Event{Type: event.EventDragEnd, PointerX: to.X, PointerY: to.Y})
	f.s.Tick()
}

func (f *fixture) connect() {
	f.dragLinkTo(f.ndc(f.position(script.ObjectPhone)))
}

func (f *fixture) visible(id string) bool {
	return f.s.Board().Visible(id)
}

// riseDone scrolls to saturation and waits out the first step
func (f *fixture) riseDone() {
	f.scroll(40)
	f.advance(1600 * time.Millisecond)
}

func TestSession_InitialState(t *testing.T) {
	f := newFixture(t, nil)
	snap := f.s.Snapshot()

	if snap.Fog.Density != 0 || snap.Fog.Saturated {
		t.Errorf("Fog = %+v, want empty", snap.Fog)
	}
	if snap.Narrative.Phase != narrative.PhaseAwaitingGate || snap.Narrative.CurrentStepIndex != 0 {
		t.Errorf("Narrative = %+v, want AwaitingGate at 0", snap.Narrative)
	}
	if snap.Indicator != "off" {
		t.Errorf("Indicator = %s, want off", snap.Indicator)
	}
	if !f.visible("instruction") || f.visible(script.PanelSignal) || f.visible(script.PanelInstructionText) {
		t.Errorf("visible panels = %v, want [instruction]", f.s.Board().VisibleIDs())
	}
	if len(snap.Objects) != 2 {
		t.Errorf("objects = %d, want 2", len(snap.Objects))
	}
}

func TestSession_FlickerBand(t *testing.T) {
	f := newFixture(t, nil)

	f.scroll(15)
	if f.visible(script.PanelSignal) {
		t.Error("signal visible at density 0.015, band is exclusive")
	}
	f.scroll(1)
	if !f.visible(script.PanelSignal) {
		t.Error("signal hidden at density 0.016, want first flicker")
	}
	f.scroll(1)
	if f.visible(script.PanelSignal) {
		t.Error("signal visible at density 0.017, want toggled off")
	}
}

func TestSession_FortyScrollsOpenFirstStep(t *testing.T) {
	f := newFixture(t, nil)
	start := f.position(script.ObjectLink)

	f.scroll(39)
	if f.s.Fog().Saturated {
		t.Fatal("saturated after 39 scrolls")
	}
	f.scroll(1)

	fs := f.s.Fog()
	if !fs.Saturated || fs.Density != 0.04 {
		t.Fatalf("Fog = %+v, want saturated at 0.04", fs)
	}
	if !f.visible(script.PanelSignal) {
		t.Error("signal panel hidden after ceiling crossed disconnected")
	}
	if got := f.s.Indicator(); got != "red" {
		t.Errorf("Indicator = %s, want red", got)
	}
	if st := f.s.Narrative(); st.Phase != narrative.PhaseTransitioning || !st.Pending {
		t.Fatalf("Narrative = %+v, want Transitioning", st)
	}

	f.advance(750 * time.Millisecond)
	mid := f.position(script.ObjectLink)
	if math.Abs(mid.Y-(start.Y+0.8)) > 1e-9 {
		t.Errorf("midpoint y = %v, want %v", mid.Y, start.Y+0.8)
	}

	f.advance(750 * time.Millisecond)
	if got := f.position(script.ObjectLink); !vmath.V3ApproxEqual(got, vmath.V3Add(start, vmath.V3(0, 1.6, 0)), 1e-9) {
		t.Errorf("link = %v, want raised by 1.6", got)
	}
	if f.visible(script.PanelInstructionText) {
		t.Error("instruction_text visible before 1600ms")
	}

	f.advance(100 * time.Millisecond)
	if !f.visible(script.PanelInstructionText) {
		t.Error("instruction_text hidden after 1600ms")
	}
	if st := f.s.Narrative(); st.Phase != narrative.PhaseAwaitingGate || st.CurrentStepIndex != 1 {
		t.Errorf("Narrative = %+v, want AwaitingGate at 1", st)
	}
}

// storyPanels returns the visible panels the steps toggle, ignoring the connection panels
func (f *fixture) storyPanels() []string {
	story := make(map[string]bool)
	for _, st := range f.s.sequencer.Steps() {
		for _, id := range append(append([]string(nil), st.PanelsToHide...), st.PanelsToShow...) {
			story[id] = true
		}
	}
	delete(story, script.PanelSignal)
	delete(story, script.PanelLinkSignal)

	var out []string
	for _, id := range f.s.Board().VisibleIDs() {
		if story[id] {
			out = append(out, id)
		}
	}
	return out
}

func TestSession_OneStepOfPanelsAtATime(t *testing.T) {
	f := newFixture(t, nil)
	steps := f.s.sequencer.Steps()

	check := func(i int) {
		t.Helper()
		want := append([]string(nil), steps[i].PanelsToShow...)
		slices.Sort(want)
		if got := f.storyPanels(); !slices.Equal(got, want) {
			t.Errorf("after step %s visible = %v, want %v", steps[i].ID, got, want)
		}
	}

	f.riseDone()
	check(0)

	f.connect()
	f.advance(time.Second)
	check(1)

	for i := 2; i < len(steps); i++ {
		f.scroll(1)
		f.advance(time.Second)
		check(i)
	}
	if !f.s.Narrative().Completed {
		t.Errorf("Narrative = %+v, want Completed", f.s.Narrative())
	}
}

func TestSession_ExtraScrollsDoNotDoubleFire(t *testing.T) {
	f := newFixture(t, nil)
	f.scroll(40)
	f.scroll(10)

	if got := f.s.sequencer.Dropped(); got != 10 {
		t.Errorf("dropped = %d, want 10", got)
	}
	if got := f.s.animator.Active(); got != 1 {
		t.Errorf("active tweens = %d, want 1", got)
	}
	if got := f.s.timers.Len(); got != 1 {
		t.Errorf("pending timers = %d, want 1", got)
	}
}

func TestSession_SaturatedWithoutConnectionHoldsLinkedStep(t *testing.T) {
	f := newFixture(t, nil)
	f.riseDone()

	f.scroll(20)
	st := f.s.Narrative()
	if st.CurrentStepIndex != 1 || st.Pending {
		t.Errorf("Narrative = %+v, want waiting at 1", st)
	}
}

func TestSession_DragConnects(t *testing.T) {
	f := newFixture(t, nil)
	f.riseDone()

	f.connect()
	if !f.s.Connected() {
		t.Fatal("drag onto phone did not connect")
	}
	if !f.visible(script.PanelLinkSignal) || f.visible(script.PanelSignal) {
		t.Errorf("visible panels = %v, want harmonylink_signal without signal", f.s.Board().VisibleIDs())
	}
	if f.visible(script.PanelInstructionText) {
		t.Error("drag start should hide instruction_text")
	}
	if got := f.s.Indicator(); got != "green" {
		t.Errorf("Indicator = %s, want green", got)
	}

	// Connection rising while saturated opens the linked step
	if st := f.s.Narrative(); st.Phase != narrative.PhaseTransitioning || st.CurrentStepIndex != 1 {
		t.Fatalf("Narrative = %+v, want Transitioning at 1", st)
	}
	f.advance(time.Second)
	if !f.visible("prompt_1") {
		t.Error("prompt_1 hidden after linked step delay")
	}
}

func TestSession_DragAwayDisconnects(t *testing.T) {
	f := newFixture(t, nil)
	f.riseDone()
	f.connect()

	f.dragLinkTo(vmath.Vec2{X: -0.95, Y: 0.95})
	if f.s.Connected() {
		t.Fatal("drag into empty space stayed connected")
	}
	if f.visible(script.PanelLinkSignal) || !f.visible(script.PanelSignal) {
		t.Errorf("visible panels = %v, want signal without harmonylink_signal", f.s.Board().VisibleIDs())
	}
	if got := f.s.Indicator(); got != "red" {
		t.Errorf("Indicator = %s, want red", got)
	}
}

func TestSession_DragStartOffObjectIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.s.Push(event.Event{Type: event.EventDragStart, PointerX: -0.95, PointerY: 0.95})
	f.s.Push(event.Event{Type: event.EventDragEnd, PointerX: -0.95, PointerY: 0.95})
	f.s.Tick()

	if got := f.s.Indicator(); got != "off" {
		t.Errorf("Indicator = %s, want off without a drag", got)
	}
}

func TestSession_CompletesAndFreezes(t *testing.T) {
	f := newFixture(t, nil)
	f.riseDone()
	f.connect()
	f.advance(time.Second)

	for i := 2; i < len(f.s.sequencer.Steps()); i++ {
		f.scroll(1)
		f.advance(time.Second)
	}

	st := f.s.Narrative()
	if !st.Completed {
		t.Fatalf("Narrative = %+v, want Completed", st)
	}
	if !f.visible("prompt_3") {
		t.Errorf("visible panels = %v, want prompt_3", f.s.Board().VisibleIDs())
	}
	if !f.s.gauge.Frozen() {
		t.Error("gauge not frozen after completion")
	}

	before := f.s.sequencer.Dropped()
	f.scroll(5)
	if !f.s.Narrative().Completed {
		t.Error("left Completed after extra scrolls")
	}
	if got := f.s.sequencer.Dropped(); got != before {
		t.Errorf("dropped changed after completion: %d -> %d", before, got)
	}
}

func TestSession_Reset(t *testing.T) {
	f := newFixture(t, nil)
	start := f.position(script.ObjectLink)
	f.scroll(40)
	f.advance(500 * time.Millisecond)

	f.s.Push(event.Event{Type: event.EventReset})
	f.s.Tick()

	snap := f.s.Snapshot()
	if snap.Fog.Density != 0 || snap.Fog.Saturated {
		t.Errorf("Fog = %+v, want empty", snap.Fog)
	}
	if snap.Narrative.Phase != narrative.PhaseAwaitingGate || snap.Narrative.CurrentStepIndex != 0 || snap.Narrative.Pending {
		t.Errorf("Narrative = %+v, want AwaitingGate at 0", snap.Narrative)
	}
	if got, _ := snap.Object(script.ObjectLink); got.Position != start {
		t.Errorf("link = %v, want %v", got.Position, start)
	}
	if f.s.timers.Len() != 0 || f.s.animator.Active() != 0 {
		t.Errorf("timers = %d, tweens = %d, want none", f.s.timers.Len(), f.s.animator.Active())
	}

	// Discarded timer must not reveal later
	f.advance(2 * time.Second)
	if f.visible(script.PanelInstructionText) {
		t.Error("instruction_text revealed by a timer discarded on reset")
	}
}

func TestSession_ProjectsPanels(t *testing.T) {
	f := newFixture(t, nil)
	f.s.Tick()

	sc, _ := script.Default()
	for _, a := range sc.AnchorPoints() {
		want := projection.Project(a.WorldPosition, f.s.Camera(), testWidth, testHeight)
		p, ok := f.s.Snapshot().Panel(a.BoundUIElementID)
		if !ok {
			t.Fatalf("panel %s missing", a.BoundUIElementID)
		}
		if p.X != want.X || p.Y != want.Y {
			t.Errorf("%s at (%v, %v), want (%v, %v)", a.BoundUIElementID, p.X, p.Y, want.X, want.Y)
		}
	}

	// Panels sharing an anchor follow it
	inst, _ := f.s.Snapshot().Panel("instruction")
	text, _ := f.s.Snapshot().Panel(script.PanelInstructionText)
	if inst.X != text.X || inst.Y != text.Y {
		t.Errorf("instruction_text at (%v, %v), want anchor (%v, %v)", text.X, text.Y, inst.X, inst.Y)
	}
}

func TestSession_Resize(t *testing.T) {
	f := newFixture(t, nil)
	f.s.Push(event.Event{Type: event.EventResize, Width: 800, Height: 400})
	f.s.Tick()

	if got := f.s.Camera().Aspect; got != 2 {
		t.Errorf("Aspect = %v, want 2", got)
	}
	snap := f.s.Snapshot()
	if snap.Width != 800 || snap.Height != 400 {
		t.Errorf("viewport = %dx%d, want 800x400", snap.Width, snap.Height)
	}
}

func TestSession_Quit(t *testing.T) {
	f := newFixture(t, nil)
	if !f.s.Tick() {
		t.Fatal("Tick returned false before quit")
	}
	f.s.Push(event.Event{Type: event.EventQuit})
	if f.s.Tick() {
		t.Error("Tick returned true after quit")
	}
}

type brokenLinkLoader struct {
	inner scene.Loader
}

func (l brokenLinkLoader) Load(ctx context.Context, path string) (*scene.Object, error) {
	if path == "harmonylink.glb" {
		return nil, errors.New("corrupt model")
	}
	return l.inner.Load(ctx, path)
}

func TestSession_FailedAssetIsNoOp(t *testing.T) {
	sc, _ := script.Default()
	f := newFixture(t, brokenLinkLoader{inner: sc.Loader()})

	if err := f.s.Ready(context.Background()); err == nil {
		t.Error("Ready = nil, want load failure")
	}

	f.scroll(40)
	if got := f.s.animator.Active(); got != 0 {
		t.Errorf("active tweens = %d, want 0 for failed asset", got)
	}
	f.advance(1600 * time.Millisecond)
	if st := f.s.Narrative(); st.CurrentStepIndex != 1 {
		t.Errorf("Narrative = %+v, want advance despite missing effect target", st)
	}

	phone := f.ndc(f.position(script.ObjectPhone))
	f.s.Push(event.Event{Type: event.EventDragStart, Target: script.ObjectLink, PointerX: phone.X, PointerY: phone.Y})
	f.s.Push(event.Event{Type: event.EventDragEnd, PointerX: phone.X, PointerY: phone.Y})
	f.s.Tick()
	if f.s.Connected() {
		t.Error("connected with an unresolved harmonylink")
	}
}

func TestSession_Metrics(t *testing.T) {
	f := newFixture(t, nil)
	f.scroll(40)

	want := map[string]string{
		"fog.density":      "0.040",
		"fog.saturated":    "true",
		"narrative.state":  narrative.PhaseTransitioning,
		"signal.indicator": "red",
		"tween.active":     "1",
	}
	got := make(map[string]string)
	for _, m := range f.s.Status().Snapshot() {
		got[m.Key] = m.Value
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
