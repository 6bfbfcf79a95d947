package render

import "github.com/coreman2200/funtimes-shapefield/internal/surface"

// Color is a linear LED color, 0..1 per channel.
type Color struct{ R, G, B float32 }

// Frame is one rendered state handed to every driver. Drivers must treat it
// as read-only; Snap is already a copy of the live surface.
type Frame struct {
	ID         uint64
	T          float64 // seconds since engine start
	Snap       surface.Snapshot
	ViewportW  float64
	ViewportH  float64
	Brightness float64
}

// Driver consumes frames: a window, a terminal, an LED strip, a socket.
type Driver interface {
	Name() string
	Write(Frame) error
	Close() error
}
