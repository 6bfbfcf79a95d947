package layout

import "math"

// Viewport carries both size sources a pointer position is normalized
// against: the document client box and the window inner box, in pixels.
type Viewport struct {
	ClientW, ClientH float64
	InnerW, InnerH   float64
}

// Square returns a viewport whose client and inner boxes are both w×h.
func Square(w, h float64) Viewport {
	return Viewport{ClientW: w, ClientH: h, InnerW: w, InnerH: h}
}

// Width is max(client width, inner width).
func (v Viewport) Width() float64 { return math.Max(v.ClientW, v.InnerW) }

// Height is max(client height, inner height).
func (v Viewport) Height() float64 { return math.Max(v.ClientH, v.InnerH) }

// Landscape reports whether the viewport is wider than it is tall.
func (v Viewport) Landscape() bool { return v.Width() > v.Height() }

// Short is the shorter viewport side.
func (v Viewport) Short() float64 { return math.Min(v.Width(), v.Height()) }

// Normalize converts a pixel position to viewport fractions. Values outside
// [0,1] are passed through unchanged.
func (v Viewport) Normalize(x, y float64) (fx, fy float64) {
	w, h := v.Width(), v.Height()
	if w <= 0 || h <= 0 {
		return 0.5, 0.5
	}
	return x / w, y / h
}

// Pixels converts viewport fractions back to pixels.
func (v Viewport) Pixels(fx, fy float64) (x, y float64) {
	return fx * v.Width(), fy * v.Height()
}

// Zones is the number of viewport bands used for zone detection.
const Zones = 3

// Zone returns which third of the viewport the fractional point falls in,
// split along the longer axis.
func (v Viewport) Zone(fx, fy float64) int {
	f := fy
	if v.Landscape() {
		f = fx
	}
	z := int(math.Floor(f * Zones))
	if z < 0 {
		return 0
	}
	if z >= Zones {
		return Zones - 1
	}
	return z
}

// Rect is an axis-aligned box in pixels.
type Rect struct{ MinX, MinY, MaxX, MaxY float64 }

func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) { return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2 }

// Bounds returns the pixel bounding box of a square node box of side
// extent*Short()*scale, centered at (left, top) and rotated by deg.
func (v Viewport) Bounds(left, top, extent, scale, deg float64) Rect {
	cx, cy := v.Pixels(left, top)
	half := extent * v.Short() * math.Abs(scale) / 2
	rad := deg * math.Pi / 180
	half *= math.Abs(math.Cos(rad)) + math.Abs(math.Sin(rad))
	return Rect{MinX: cx - half, MinY: cy - half, MaxX: cx + half, MaxY: cy + half}
}

// Dim is the pixel size of an LED panel.
type Dim struct{ X, Y int }

type Serpentine struct {
	XFlipEveryRow bool
}

// Panel describes a wired LED matrix.
type Panel struct {
	Dim   Dim
	Order Serpentine
}

// Index maps x,y -> linear LED index (0..N-1)
func (p Panel) Index(x, y int) int {
	xx := x
	if (y%2 == 1) && p.Order.XFlipEveryRow {
		xx = p.Dim.X - 1 - x
	}
	return y*p.Dim.X + xx
}

func (p Panel) Count() int {
	return p.Dim.X * p.Dim.Y
}
