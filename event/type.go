package event

import "time"

// EventType represents the kind of input or lifecycle event consumed by the session
type EventType int

const (
	// EventNone is the zero value, ignored by the router
	EventNone EventType = iota

	// EventScroll carries a wheel tick
	// Trigger: host wheel input | Payload: DeltaY (only the sign is used)
	EventScroll

	// EventPointerMove updates the pointer position
	// Trigger: host mouse motion | Payload: Pointer in NDC
	EventPointerMove

	// EventDragStart marks the start of an object drag
	// Trigger: host drag controls | Payload: Target object id
	EventDragStart

	// EventDragEnd marks drag completion, the only signal the Signal Detector needs
	// Trigger: host drag controls | Payload: Pointer in NDC
	EventDragEnd

	// EventResize reports a new viewport size
	// Trigger: host resize | Payload: Width, Height
	EventResize

	// EventReset requests a full session restart
	// Trigger: host key binding | Payload: nil
	EventReset

	// EventQuit stops the session loop
	EventQuit
)

var typeNames = map[EventType]string{
	EventNone:        "None",
	EventScroll:      "Scroll",
	EventPointerMove: "PointerMove",
	EventDragStart:   "DragStart",
	EventDragEnd:     "DragEnd",
	EventResize:      "Resize",
	EventReset:       "Reset",
	EventQuit:        "Quit",
}

// String returns the event type name
func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is a flat input event, payload fields are meaningful per type
type Event struct {
	Type EventType
	Time time.Time

	DeltaY float64 // EventScroll

	// Pointer position in normalized device coordinates, +Y up
	PointerX, PointerY float64

	Target string // EventDragStart

	Width, Height int // EventResize
}
