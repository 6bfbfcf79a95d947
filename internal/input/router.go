// Package input turns host pointer, touch and click events into samples in
// viewport-fraction space.
package input

import (
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
)

// Sample is one normalized input position. X and Y are fractions of the
// viewport and may lie outside [0,1]. PX and PY are the raw pixels.
type Sample struct {
	X, Y   float64
	PX, PY float64
	At     time.Duration
}

// Router registers listeners on a host. Every listener it adds is passive.
type Router struct {
	h *host.Host
}

func New(h *host.Host) *Router { return &Router{h: h} }

// Point returns the first available coordinate source of ev: the mouse
// point, else the first touch.
func Point(ev host.Event) (x, y float64, ok bool) {
	if ev.HasPoint {
		return ev.X, ev.Y, true
	}
	if len(ev.Touches) > 0 {
		return ev.Touches[0].X, ev.Touches[0].Y, true
	}
	return 0, 0, false
}

// Normalize converts ev into a Sample against the host's current viewport.
// No clamping happens here.
func (r *Router) Normalize(ev host.Event) (Sample, bool) {
	x, y, ok := Point(ev)
	if !ok {
		return Sample{}, false
	}
	fx, fy := r.h.Viewport().Normalize(x, y)
	return Sample{X: fx, Y: fy, PX: x, PY: y, At: r.h.Now()}, true
}

// OnMove subscribes fn to pointer and touch movement.
func (r *Router) OnMove(fn func(Sample)) []host.ListenerID {
	l := func(ev host.Event) {
		if s, ok := r.Normalize(ev); ok {
			fn(s)
		}
	}
	return []host.ListenerID{
		r.h.AddListener(host.PointerMove, l, true),
		r.h.AddListener(host.TouchMove, l, true),
	}
}

// OnClick subscribes fn to clicks.
func (r *Router) OnClick(fn func(Sample)) host.ListenerID {
	return r.h.AddListener(host.Click, func(ev host.Event) {
		if s, ok := r.Normalize(ev); ok {
			fn(s)
		}
	}, true)
}
