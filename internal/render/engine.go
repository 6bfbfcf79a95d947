// Package render turns the live shape surface into frames and fans them out
// to output drivers.
package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// ParamBrightness scales output light. 1 is unchanged, 0 is dark.
const ParamBrightness = "brightness"

// Engine snapshots the surface once per frame and writes it to each driver.
// RenderOnce runs on the runner goroutine; Last, FrameID and the params may
// be read from anywhere.
type Engine struct {
	root *surface.Root
	t0   time.Time

	mu      sync.Mutex
	drivers []Driver
	params  map[string]float64
	frameID uint64
	last    Metrics
	errs    map[string]int
}

// Metrics are the last frame's durations in ms.
type Metrics struct {
	SnapshotMS float64 `json:"snapshot_ms"`
	WriteMS    float64 `json:"write_ms"`
	TotalMS    float64 `json:"total_ms"`
}

func NewEngine(root *surface.Root, drivers ...Driver) (*Engine, error) {
	if !root.Active() {
		return nil, errors.New("render: no shapes")
	}
	return &Engine{
		root:    root,
		t0:      time.Now(),
		drivers: drivers,
		params:  map[string]float64{ParamBrightness: 1},
		errs:    map[string]int{},
	}, nil
}

// AddDriver attaches d for every later frame.
func (e *Engine) AddDriver(d Driver) {
	e.mu.Lock()
	e.drivers = append(e.drivers, d)
	e.mu.Unlock()
}

func (e *Engine) Drivers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.drivers))
	for i, d := range e.drivers {
		out[i] = d.Name()
	}
	return out
}

func (e *Engine) SetParam(k string, v float64) {
	e.mu.Lock()
	e.params[k] = v
	e.mu.Unlock()
}

func (e *Engine) Param(k string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params[k]
}

// Now returns seconds since the engine started.
func (e *Engine) Now() float64 { return time.Since(e.t0).Seconds() }

// Frame builds the next frame without writing it.
func (e *Engine) Frame(vp layout.Viewport) Frame {
	e.mu.Lock()
	e.frameID++
	id := e.frameID
	bright := e.params[ParamBrightness]
	e.mu.Unlock()
	return Frame{
		ID:         id,
		T:          e.Now(),
		Snap:       e.root.Snapshot(),
		ViewportW:  vp.Width(),
		ViewportH:  vp.Height(),
		Brightness: bright,
	}
}

// RenderOnce snapshots the surface and writes it to every driver. A failing
// driver does not stop the others; their errors are joined.
func (e *Engine) RenderOnce(vp layout.Viewport) error {
	start := time.Now()
	f := e.Frame(vp)
	snapMS := msSince(start)

	e.mu.Lock()
	drivers := append([]Driver(nil), e.drivers...)
	e.mu.Unlock()

	writeStart := time.Now()
	var errs []error
	for _, d := range drivers {
		if err := d.Write(f); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			e.mu.Lock()
			e.errs[d.Name()]++
			e.mu.Unlock()
		}
	}

	e.mu.Lock()
	e.last = Metrics{SnapshotMS: snapMS, WriteMS: msSince(writeStart), TotalMS: msSince(start)}
	e.mu.Unlock()
	return errors.Join(errs...)
}

func (e *Engine) FrameID() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameID
}

func (e *Engine) Last() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// DriverErrors counts write failures per driver name.
func (e *Engine) DriverErrors() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.errs))
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

// Close closes every driver.
func (e *Engine) Close() error {
	e.mu.Lock()
	drivers := e.drivers
	e.drivers = nil
	e.mu.Unlock()
	var errs []error
	for _, d := range drivers {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func msSince(t time.Time) float64 { return float64(time.Since(t).Microseconds()) / 1000.0 }
