package led

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-shapefield/internal/config"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// strip records what was drawn.
type strip struct {
	n      int
	drawn  image.Image
	halted bool
}

func (s *strip) String() string { return "strip" }

func (s *strip) Halt() error {
	s.halted = true
	return nil
}

func (s *strip) ColorModel() color.Model { return color.NRGBAModel }
func (s *strip) Bounds() image.Rectangle { return image.Rect(0, 0, s.n, 1) }

func (s *strip) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.drawn = src
	return nil
}

func panelCfg() config.LED {
	return config.LED{Dim: config.Dim{X: 8, Y: 8}, XFlipEveryRow: true, Brightness: 1}
}

func fullFrame() render.Frame {
	return render.Frame{ID: 1, ViewportW: 8, ViewportH: 8, Brightness: 1, Snap: surface.Snapshot{
		Opacity: 1,
		Shapes: []surface.ShapeView{{
			ID: "a", Template: surface.Blob, Extent: 3,
			Style: surface.Style{Left: 0.5, Top: 0.5, Scale: 1, Opacity: 1, Fill: surface.Palette[0]},
		}},
	}}
}

func TestWriteDrawsStripOrder(t *testing.T) {
	out := &strip{n: 64}
	d := New(out, PanelOf(panelCfg()), panelCfg())
	require.NoError(t, d.Write(fullFrame()))

	require.NotNil(t, out.drawn)
	assert.Equal(t, image.Rect(0, 0, 64, 1), out.drawn.Bounds())
	assert.Len(t, d.Last(), 64)
	_, _, _, a := out.drawn.At(10, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)

	require.NoError(t, d.Close())
	assert.True(t, out.halted)
	assert.NoError(t, d.Close())
	assert.NoError(t, d.Write(fullFrame()))
}

func TestPowerBudgetDimsFrame(t *testing.T) {
	free := New(&strip{n: 64}, PanelOf(panelCfg()), panelCfg())
	require.NoError(t, free.Write(fullFrame()))

	cfg := panelCfg()
	cfg.Power.LimitAmps = 0.05
	capped := New(&strip{n: 64}, PanelOf(cfg), cfg)
	require.NoError(t, capped.Write(fullFrame()))

	total := render.EstimateCurrent(capped.Last(), capped.Limit.ChanmA)
	assert.LessOrEqual(t, total, 50.0*1.001)
	assert.Less(t, total, render.EstimateCurrent(free.Last(), free.Limit.ChanmA))
}

func TestFrameBrightnessScales(t *testing.T) {
	d := New(&strip{n: 64}, PanelOf(panelCfg()), panelCfg())
	require.NoError(t, d.Write(fullFrame()))
	full := render.EstimateCurrent(d.Last(), 20)

	f := fullFrame()
	f.Brightness = 0.5
	require.NoError(t, d.Write(f))
	half := render.EstimateCurrent(d.Last(), 20)
	assert.InDelta(t, full/2, half, full*0.01)
}

func TestFrameBrightnessZeroIsDark(t *testing.T) {
	d := New(&strip{n: 64}, PanelOf(panelCfg()), panelCfg())
	f := fullFrame()
	f.Brightness = 0
	require.NoError(t, d.Write(f))
	assert.Zero(t, render.EstimateCurrent(d.Last(), 20))
}

func TestWriteOverNrzledSPI(t *testing.T) {
	var buf bytes.Buffer
	cfg := panelCfg()
	dev, err := nrzled.NewSPI(spitest.NewRecordRaw(&buf), &nrzled.Opts{
		NumPixels: PanelOf(cfg).Count(), Channels: 3, Freq: 2500 * physic.KiloHertz,
	})
	require.NoError(t, err)

	d := New(dev, PanelOf(cfg), cfg)
	require.NoError(t, d.Write(fullFrame()))
	assert.NotZero(t, buf.Len())
	assert.NoError(t, d.Close())
}

func TestPanelOf(t *testing.T) {
	p := PanelOf(config.LED{Dim: config.Dim{X: 4, Y: 3}, XFlipEveryRow: true})
	assert.Equal(t, 12, p.Count())
	assert.Equal(t, 7, p.Index(0, 1))
}
