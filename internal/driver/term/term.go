// Package term draws frames in a terminal with half-block cells and feeds
// mouse and keys back to the engine.
package term

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

const halfBlock = '▀'

// Input receives what the user does in the terminal.
type Input interface {
	Post(host.Event) bool
	Key(ctx context.Context, k rune) bool
}

// Driver is a render.Driver backed by a tcell screen. Each cell shows two
// vertically stacked pixels, so the engine viewport is cols × rows*2.
type Driver struct {
	screen tcell.Screen

	mu         sync.Mutex
	cols, rows int
	pressed    bool
	closed     bool
}

// New initializes screen, or the real terminal when screen is nil.
func New(screen tcell.Screen) (*Driver, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	d := &Driver{screen: screen}
	d.cols, d.rows = screen.Size()
	return d, nil
}

func (d *Driver) Name() string { return "term" }

// Viewport is the terminal as the engine sees it.
func (d *Driver) Viewport() layout.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return layout.Square(float64(d.cols), float64(d.rows*2))
}

func (d *Driver) Write(f render.Frame) error {
	d.mu.Lock()
	cols, rows, closed := d.cols, d.rows, d.closed
	d.mu.Unlock()
	if closed || cols <= 0 || rows <= 0 {
		return nil
	}

	img := render.Rasterize(f, cols, rows*2)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			st := tcell.StyleDefault.
				Foreground(cellColor(img, x, 2*y)).
				Background(cellColor(img, x, 2*y+1))
			d.screen.SetContent(x, y, halfBlock, nil, st)
		}
	}
	hud := fmt.Sprintf(" mode %d  frame %d  1-9 0 - switch  p pause  q quit ", f.Snap.Mode, f.ID)
	drawText(d.screen, 0, rows-1, hud, tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))
	d.screen.Show()
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.screen.Fini()
	return nil
}

// Run feeds terminal input to in until ctx ends or the user quits. A panic
// restores the terminal before it is reported as an error.
func (d *Driver) Run(ctx context.Context, in Input) (err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = d.Close()
			log.Error().Interface("panic", r).Msg("terminal frontend crashed")
			err = fmt.Errorf("terminal frontend: %v", r)
		}
	}()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start the engine at the terminal's size.
	in.Post(host.Event{Kind: host.Resize, Viewport: d.Viewport()})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if d.handle(ctx, ev, in) {
				return nil
			}
		}
	}
}

// handle translates one tcell event. It reports whether the user quit.
func (d *Driver) handle(ctx context.Context, ev tcell.Event, in Input) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			return in.Key(ctx, ev.Rune())
		}

	case *tcell.EventMouse:
		cx, cy := ev.Position()
		x, y := float64(cx)+0.5, float64(cy)*2+1
		in.Post(host.Pointer(x, y))
		down := ev.Buttons()&tcell.Button1 != 0
		d.mu.Lock()
		click := down && !d.pressed
		d.pressed = down
		d.mu.Unlock()
		if click {
			in.Post(host.Tap(x, y))
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		d.mu.Lock()
		d.cols, d.rows = w, h
		d.mu.Unlock()
		d.screen.Sync()
		in.Post(host.Event{Kind: host.Resize, Viewport: d.Viewport()})
	}
	return false
}

func cellColor(img *image.RGBA, x, y int) tcell.Color {
	c := img.RGBAAt(x, y)
	return rgb(c)
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}
