package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/harmonylink/event"
)

// inputMapper converts terminal events into session events
// Owned by the poll goroutine
type inputMapper struct {
	vp         viewport
	scrollStep float64
	pressed    bool
}

func newInputMapper(cols, rows int, scrollStep float64) *inputMapper {
	return &inputMapper{vp: viewport{cols: cols, rows: rows}, scrollStep: scrollStep}
}

// translate returns the session events for ev, nil when ev is not bound
func (m *inputMapper) translate(ev tcell.Event) []event.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return m.key(ev)
	case *tcell.EventMouse:
		return m.mouse(ev)
	case *tcell.EventResize:
		cols, rows := ev.Size()
		m.vp = viewport{cols: cols, rows: rows}
		w, h := m.vp.size()
		return []event.Event{{Type: event.EventResize, Width: w, Height: h}}
	}
	return nil
}

func (m *inputMapper) key(ev *tcell.EventKey) []event.Event {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return []event.Event{{Type: event.EventQuit}}
	case tcell.KeyDown, tcell.KeyPgDn:
		return []event.Event{m.scroll(1)}
	case tcell.KeyUp, tcell.KeyPgUp:
		return []event.Event{m.scroll(-1)}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return []event.Event{{Type: event.EventQuit}}
		case 'r':
			return []event.Event{{Type: event.EventReset}}
		case 'j', ' ':
			return []event.Event{m.scroll(1)}
		case 'k':
			return []event.Event{m.scroll(-1)}
		}
	}
	return nil
}

func (m *inputMapper) mouse(ev *tcell.EventMouse) []event.Event {
	x, y := ev.Position()
	p := m.vp.ndc(x, y)
	btn := ev.Buttons()

	switch {
	case btn&tcell.WheelDown != 0:
		return []event.Event{m.scroll(1)}
	case btn&tcell.WheelUp != 0:
		return []event.Event{m.scroll(-1)}
	}

	typ := event.EventPointerMove
	switch held := btn&tcell.Button1 != 0; {
	case held && !m.pressed:
		m.pressed = true
		typ = event.EventDragStart
	case !held && m.pressed:
		m.pressed = false
		typ = event.EventDragEnd
	}
	return []event.Event{{Type: typ, PointerX: p.X, PointerY: p.Y}}
}

// scroll mirrors browser wheel deltas: positive scrolls down into the fog
func (m *inputMapper) scroll(dir float64) event.Event {
	return event.Event{Type: event.EventScroll, DeltaY: dir * m.scrollStep}
}
