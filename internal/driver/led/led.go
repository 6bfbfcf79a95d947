// Package led drives a WS2812 panel over SPI with periph, falling back to a
// console strip when no SPI port is available.
package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-shapefield/internal/config"
	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

// DefaultFreq is the SPI clock used when none is configured.
const DefaultFreq = 2500 * physic.KiloHertz

// Driver samples each frame onto the panel and pushes it to a strip.
type Driver struct {
	Panel      layout.Panel
	Brightness float64
	Limit      render.LimitParams

	mu    sync.Mutex
	out   display.Drawer
	port  io.Closer
	onSPI bool
	strip *image.NRGBA
	last  []render.Color
}

// Open initializes periph and opens the configured SPI port. Without one,
// frames go to a console strip instead.
func Open(cfg config.LED) (*Driver, error) {
	panel := PanelOf(cfg)
	if panel.Count() <= 0 {
		return nil, fmt.Errorf("invalid LED panel %dx%d", cfg.Dim.X, cfg.Dim.Y)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}

	port, err := spireg.Open(cfg.SPI.Dev)
	if err != nil {
		log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("no SPI port; printing the strip at the console")
		return New(screen.New(panel.Count()), panel, cfg), nil
	}

	freq := DefaultFreq
	if cfg.SPI.SpeedHz > 0 {
		freq = physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{NumPixels: panel.Count(), Channels: 3, Freq: freq})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	_ = dev.Halt()

	d := New(dev, panel, cfg)
	d.port = port
	d.onSPI = true
	log.Info().Str("dev", dev.String()).Int("leds", panel.Count()).Msg("LED panel ready")
	return d, nil
}

// New wraps an already opened drawer.
func New(out display.Drawer, panel layout.Panel, cfg config.LED) *Driver {
	lp := render.DefaultLimitParams()
	if cfg.Power.WhiteCap > 0 {
		lp.WhiteCap = cfg.Power.WhiteCap
	}
	if cfg.Power.LimitAmps > 0 {
		lp.BudgetmA = cfg.Power.LimitAmps * 1000
	}
	bright := cfg.Brightness
	if bright <= 0 {
		bright = 1
	}
	return &Driver{
		Panel:      panel,
		Brightness: bright,
		Limit:      lp,
		out:        out,
		strip:      image.NewNRGBA(image.Rect(0, 0, panel.Count(), 1)),
	}
}

// PanelOf describes the wired panel in cfg.
func PanelOf(cfg config.LED) layout.Panel {
	return layout.Panel{
		Dim:   layout.Dim{X: cfg.Dim.X, Y: cfg.Dim.Y},
		Order: layout.Serpentine{XFlipEveryRow: cfg.XFlipEveryRow},
	}
}

func (d *Driver) Name() string {
	if d.onSPI {
		return "led"
	}
	return "led-console"
}

// OnSPI reports whether frames reach real hardware.
func (d *Driver) OnSPI() bool { return d.onSPI }

func (d *Driver) Write(f render.Frame) error {
	bright := d.Brightness * math.Max(0, math.Min(f.Brightness, 1))
	img := render.RasterizeUnlit(f, d.Panel.Dim.X, d.Panel.Dim.Y)
	buf := render.Sample(img, d.Panel, bright)
	render.Limit(buf, d.Limit)
	return d.push(buf)
}

// push draws a strip-order buffer.
func (d *Driver) push(buf []render.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.out == nil {
		return nil
	}
	for i, c := range buf {
		d.strip.SetNRGBA(i, 0, color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 255})
	}
	d.last = append(d.last[:0], buf...)
	return d.out.Draw(d.out.Bounds(), d.strip, image.Point{})
}

// Last is the most recent strip-order buffer after limiting.
func (d *Driver) Last() []render.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]render.Color(nil), d.last...)
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.out == nil {
		return nil
	}
	err := d.out.Halt()
	d.out = nil
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
