package fake

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

var ErrClosed = errors.New("fake: closed")

// Driver records frames, useful for headless runs and tests. When Out is
// set it also prints a compact line per frame.
type Driver struct {
	Out io.Writer
	// Every prints one line per Every frames. 0 means every frame.
	Every int
	// Fail, when set, is returned from Write.
	Fail error

	mu     sync.Mutex
	count  int
	last   render.Frame
	closed bool
}

func (d *Driver) Name() string { return "fake" }

func (d *Driver) Write(f render.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.Fail != nil {
		return d.Fail
	}
	d.count++
	d.last = f
	if d.Out != nil && (d.Every <= 1 || d.count%d.Every == 0) {
		first := "-"
		if len(f.Snap.Shapes) > 0 {
			s := f.Snap.Shapes[0]
			first = fmt.Sprintf("%s@(%.3f,%.3f) rot=%.1f", s.ID, s.Left, s.Top, s.Rotate)
		}
		fmt.Fprintf(d.Out, "[frame %04d] mode=%d opacity=%.2f blur=%.1f first=%s\n",
			f.ID, f.Snap.Mode, f.Snap.Opacity, f.Snap.Blur, first)
	}
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *Driver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

func (d *Driver) Last() render.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
