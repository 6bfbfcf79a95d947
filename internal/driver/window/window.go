// Package window shows the engine in a desktop window using ebiten.
package window

import (
	"context"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

// Input receives what the user does in the window.
type Input interface {
	Post(host.Event) bool
	Key(ctx context.Context, k rune) bool
}

// Driver is both the render.Driver the engine writes to and the ebiten
// Game that presents the latest frame.
type Driver struct {
	Title string

	ctx context.Context
	in  Input

	mu     sync.Mutex
	last   render.Frame
	has    bool
	closed bool

	w, h   int
	cx, cy int
	tex    *ebiten.Image
	keys   []ebiten.Key

	touchIDs []ebiten.TouchID
	touches  []host.Point
}

func New(w, h int) *Driver {
	return &Driver{Title: "shapefield", w: w, h: h, cx: -1, cy: -1}
}

func (d *Driver) Name() string { return "window" }

// Viewport is the current window content size.
func (d *Driver) Viewport() layout.Viewport {
	return layout.Square(float64(d.w), float64(d.h))
}

// Write keeps f for the next Draw.
func (d *Driver) Write(f render.Frame) error {
	d.mu.Lock()
	d.last, d.has = f, true
	d.mu.Unlock()
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Run opens the window and blocks until it closes, ctx ends or the user
// quits. Must be called from the main goroutine.
func (d *Driver) Run(ctx context.Context, in Input) error {
	d.ctx, d.in = ctx, in
	ebiten.SetWindowSize(d.w, d.h)
	ebiten.SetWindowTitle(d.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	in.Post(host.Event{Kind: host.Resize, Viewport: d.Viewport()})
	return ebiten.RunGame(d)
}

func (d *Driver) Update() error {
	if d.ctx.Err() != nil || d.isClosed() {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	if x != d.cx || y != d.cy {
		d.cx, d.cy = x, y
		d.in.Post(host.Pointer(float64(x), float64(y)))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		d.in.Post(host.Tap(float64(x), float64(y)))
	}
	d.touchIDs = ebiten.AppendTouchIDs(d.touchIDs[:0])
	pts := make([]host.Point, 0, len(d.touchIDs))
	for _, id := range d.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		pts = append(pts, host.Point{X: float64(tx), Y: float64(ty)})
	}
	d.trackTouches(pts)

	d.keys = inpututil.AppendJustPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		r, ok := keyRune(k)
		if !ok {
			continue
		}
		if d.in.Key(d.ctx, r) {
			return ebiten.Termination
		}
	}
	return nil
}

func (d *Driver) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	f, has := d.last, d.has
	d.mu.Unlock()
	if !has {
		return
	}

	b := screen.Bounds()
	img := render.Rasterize(f, b.Dx(), b.Dy())
	if d.tex == nil || d.tex.Bounds() != img.Bounds() {
		d.tex = ebiten.NewImage(b.Dx(), b.Dy())
	}
	d.tex.WritePixels(img.Pix)
	screen.DrawImage(d.tex, nil)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("mode %d  frame %d  %.0f fps\n1-9 0 - switch modes, r regenerate, p pause autoplay, q quit",
		f.Snap.Mode, f.ID, ebiten.ActualFPS()))
}

// Layout follows the window size and reports changes to the engine.
func (d *Driver) Layout(outW, outH int) (int, int) {
	if outW != d.w || outH != d.h {
		d.w, d.h = outW, outH
		if d.in != nil {
			d.in.Post(host.Event{Kind: host.Resize, Viewport: d.Viewport()})
		}
	}
	return outW, outH
}

// trackTouches posts a TouchMove whenever the set of touch points changes,
// so drags stream samples the way cursor moves do.
func (d *Driver) trackTouches(pts []host.Point) {
	if len(pts) == 0 {
		d.touches = d.touches[:0]
		return
	}
	if samePoints(pts, d.touches) {
		return
	}
	d.touches = append(d.touches[:0], pts...)
	d.in.Post(host.Touch(pts...))
}

func samePoints(a, b []host.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (d *Driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

var keyRunes = map[ebiten.Key]rune{
	ebiten.KeyDigit0:         '0',
	ebiten.KeyDigit1:         '1',
	ebiten.KeyDigit2:         '2',
	ebiten.KeyDigit3:         '3',
	ebiten.KeyDigit4:         '4',
	ebiten.KeyDigit5:         '5',
	ebiten.KeyDigit6:         '6',
	ebiten.KeyDigit7:         '7',
	ebiten.KeyDigit8:         '8',
	ebiten.KeyDigit9:         '9',
	ebiten.KeyNumpad0:        '0',
	ebiten.KeyNumpad1:        '1',
	ebiten.KeyNumpad2:        '2',
	ebiten.KeyNumpad3:        '3',
	ebiten.KeyNumpad4:        '4',
	ebiten.KeyNumpad5:        '5',
	ebiten.KeyNumpad6:        '6',
	ebiten.KeyNumpad7:        '7',
	ebiten.KeyNumpad8:        '8',
	ebiten.KeyNumpad9:        '9',
	ebiten.KeyMinus:          '-',
	ebiten.KeyNumpadSubtract: '-',
	ebiten.KeyP:              'p',
	ebiten.KeyR:              'r',
	ebiten.KeyQ:              'q',
	ebiten.KeyEscape:         0x1b,
}

func keyRune(k ebiten.Key) (rune, bool) {
	r, ok := keyRunes[k]
	return r, ok
}
