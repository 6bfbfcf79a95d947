// Package host stands in for the page runtime the engine lives in: it keeps
// the registered input listeners and one-shot frame callbacks, and dispatches
// events and frames to them.
//
// A Host is not safe for concurrent use. Exactly one goroutine (the app
// runner) owns it; everything else talks to that goroutine over channels.
package host

import (
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/layout"
)

// EventKind enumerates the input events a Host dispatches.
type EventKind int

const (
	PointerMove EventKind = iota
	TouchMove
	Click
	Resize
)

func (k EventKind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case TouchMove:
		return "touchmove"
	case Click:
		return "click"
	case Resize:
		return "resize"
	}
	return "unknown"
}

// Point is a position in viewport pixels.
type Point struct{ X, Y float64 }

// Event is one input event. Pointer and Click carry a mouse point in X/Y and
// set HasPoint; TouchMove carries Touches. Resize carries the new viewport.
type Event struct {
	Kind     EventKind
	X, Y     float64
	HasPoint bool
	Touches  []Point
	Viewport layout.Viewport
}

// Pointer builds a mouse PointerMove event.
func Pointer(x, y float64) Event { return Event{Kind: PointerMove, X: x, Y: y, HasPoint: true} }

// Tap builds a Click event.
func Tap(x, y float64) Event { return Event{Kind: Click, X: x, Y: y, HasPoint: true} }

// Touch builds a TouchMove event.
func Touch(pts ...Point) Event { return Event{Kind: TouchMove, Touches: pts} }

type (
	ListenerID uint64
	FrameID    uint64
	Listener   func(Event)
	// FrameFunc receives the host time at which the frame runs.
	FrameFunc func(now time.Duration)
)

type listener struct {
	id      ListenerID
	kind    EventKind
	fn      Listener
	passive bool
}

type frame struct {
	id FrameID
	fn FrameFunc
}

// Host dispatches input and frames.
type Host struct {
	clock    Clock
	viewport layout.Viewport

	listeners []listener
	frames    []frame
	due       []frame
	nextID    uint64

	frameNo uint64
}

// New returns a Host reading time from clock.
func New(clock Clock, vp layout.Viewport) *Host {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Host{clock: clock, viewport: vp}
}

func (h *Host) Now() time.Duration { return h.clock.Now() }

func (h *Host) Viewport() layout.Viewport { return h.viewport }

// FrameNumber counts completed Ticks.
func (h *Host) FrameNumber() uint64 { return h.frameNo }

func (h *Host) id() uint64 {
	h.nextID++
	return h.nextID
}

// AddListener registers fn for events of kind. passive listeners promise
// never to block default scrolling or gestures.
func (h *Host) AddListener(kind EventKind, fn Listener, passive bool) ListenerID {
	id := ListenerID(h.id())
	h.listeners = append(h.listeners, listener{id: id, kind: kind, fn: fn, passive: passive})
	return id
}

// RemoveListener unregisters id. It reports whether id was registered.
func (h *Host) RemoveListener(id ListenerID) bool {
	for i, l := range h.listeners {
		if l.id == id {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RequestFrame schedules fn to run once on the next Tick.
func (h *Host) RequestFrame(fn FrameFunc) FrameID {
	id := FrameID(h.id())
	h.frames = append(h.frames, frame{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame callback. It reports whether id was
// still pending.
func (h *Host) CancelFrame(id FrameID) bool {
	for i, f := range h.frames {
		if f.id == id {
			h.frames = append(h.frames[:i], h.frames[i+1:]...)
			return true
		}
	}
	for i, f := range h.due {
		if f.id == id {
			h.due = append(h.due[:i], h.due[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch delivers ev to the listeners registered for its kind, in
// registration order. A Resize event updates the viewport first.
func (h *Host) Dispatch(ev Event) {
	if ev.Kind == Resize {
		h.viewport = ev.Viewport
	}
	// Listeners may add or remove listeners while running.
	snapshot := append([]listener(nil), h.listeners...)
	for _, l := range snapshot {
		if l.kind != ev.Kind || !h.registered(l.id) {
			continue
		}
		l.fn(ev)
	}
}

// Tick runs every frame callback that was pending when Tick started.
// Callbacks requested during the tick run on the next one.
func (h *Host) Tick() {
	h.due, h.frames = h.frames, nil
	now := h.Now()
	// A callback may cancel a sibling that is already due.
	for len(h.due) > 0 {
		f := h.due[0]
		h.due = h.due[1:]
		f.fn(now)
	}
	h.frameNo++
}

func (h *Host) registered(id ListenerID) bool {
	for _, l := range h.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

// ListenerCount is the number of live listeners.
func (h *Host) ListenerCount() int { return len(h.listeners) }

// ListenersOf counts live listeners of one kind.
func (h *Host) ListenersOf(kind EventKind) int {
	n := 0
	for _, l := range h.listeners {
		if l.kind == kind {
			n++
		}
	}
	return n
}

// PendingFrames is the number of frame callbacks waiting to run.
func (h *Host) PendingFrames() int { return len(h.frames) + len(h.due) }

// PassiveViolations counts listeners registered as blocking.
func (h *Host) PassiveViolations() int {
	n := 0
	for _, l := range h.listeners {
		if !l.passive {
			n++
		}
	}
	return n
}
