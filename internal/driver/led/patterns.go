package led

import (
	"context"
	"fmt"
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

// Pattern is a wiring check shown on the panel in place of engine frames.
type Pattern string

const (
	NoPattern   Pattern = ""
	IndexSweep  Pattern = "index_sweep"
	RGBChannels Pattern = "rgb_channels"
	RowSweep    Pattern = "row_sweep"
)

// ParsePattern accepts the names above.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case NoPattern, IndexSweep, RGBChannels, RowSweep:
		return p, nil
	}
	return NoPattern, fmt.Errorf("unknown LED pattern %q", s)
}

// PatternRunner steps a pattern one frame at a time.
type PatternRunner struct {
	kind Pattern
	step int
}

func NewPatternRunner(k Pattern) *PatternRunner { return &PatternRunner{kind: k} }

func (r *PatternRunner) Kind() Pattern { return r.kind }

// Step fills buf (strip order); returns false when complete.
func (r *PatternRunner) Step(p layout.Panel, buf []render.Color) bool {
	for i := range buf {
		buf[i] = render.Color{}
	}
	n := p.Count()

	switch r.kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		buf[r.step] = render.Color{R: 1, G: 1, B: 1}
	case RGBChannels:
		if r.step >= 3 {
			return false
		}
		for i := 0; i < n; i++ {
			switch r.step {
			case 0:
				buf[i].R = 1
			case 1:
				buf[i].G = 1
			case 2:
				buf[i].B = 1
			}
		}
	case RowSweep:
		if r.step >= p.Dim.Y {
			return false
		}
		for x := 0; x < p.Dim.X; x++ {
			buf[p.Index(x, r.step)] = render.Color{G: 1, B: 1} // cyan
		}
	default:
		return false
	}
	r.step++
	return true
}

// RunPattern shows k on the panel, one step every interval, then blanks it.
func (d *Driver) RunPattern(ctx context.Context, k Pattern, every time.Duration) error {
	r := NewPatternRunner(k)
	buf := make([]render.Color, d.Panel.Count())
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for r.Step(d.Panel, buf) {
		render.Limit(buf, d.Limit)
		if err := d.push(buf); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return d.push(make([]render.Color, d.Panel.Count()))
}
