package event

// Handler processes specific event types within a context T
type Handler[T any] interface {
	// HandleEvent processes a single event, called synchronously during dispatch
	HandleEvent(ctx T, ev Event)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc[T any] struct {
	Types []EventType
	Fn    func(ctx T, ev Event)
}

func (h HandlerFunc[T]) HandleEvent(ctx T, ev Event) { h.Fn(ctx, ev) }
func (h HandlerFunc[T]) EventTypes() []EventType     { return h.Types }

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch, each event runs to completion before the next
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router[T any] struct {
	handlers map[EventType][]Handler[T]
	queue    *Queue
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *Queue) *Router[T] {
	return &Router[T]{
		handlers: make(map[EventType][]Handler[T]),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// Dispatch routes a single event
func (r *Router[T]) Dispatch(ctx T, ev Event) {
	for _, h := range r.handlers[ev.Type] {
		h.HandleEvent(ctx, ev)
	}
}

// DispatchAll consumes all pending events in FIFO order, returns the count
func (r *Router[T]) DispatchAll(ctx T) int {
	events := r.queue.Consume()
	for _, ev := range events {
		r.Dispatch(ctx, ev)
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
