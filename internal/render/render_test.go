package render_test

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-shapefield/internal/driver/fake"
	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

func oneShapeRoot() *surface.Root {
	n := surface.NewNode("a", surface.Blob, 0.5)
	n.SetStyle(surface.Style{Left: 0.5, Top: 0.5, Scale: 1, Opacity: 1, Z: 10, Fill: surface.Blue})
	root := surface.NewRoot(n)
	root.SetOpacity(1)
	return root
}

func TestEngineFansOut(t *testing.T) {
	root := oneShapeRoot()
	root.SetAttr(surface.AttrMode, "4")
	var out bytes.Buffer
	a := &fake.Driver{Out: &out}
	b := &fake.Driver{}
	eng, err := render.NewEngine(root, a)
	require.NoError(t, err)
	eng.AddDriver(b)
	assert.Equal(t, []string{"fake", "fake"}, eng.Drivers())

	vp := layout.Square(800, 600)
	require.NoError(t, eng.RenderOnce(vp))
	require.NoError(t, eng.RenderOnce(vp))

	assert.Equal(t, 2, a.Count())
	assert.Equal(t, 2, b.Count())
	assert.EqualValues(t, 2, eng.FrameID())
	assert.Equal(t, 4, b.Last().Snap.Mode)
	assert.Equal(t, 800.0, b.Last().ViewportW)
	assert.Contains(t, out.String(), "mode=4")
}

func TestEngineKeepsWritingPastAFailingDriver(t *testing.T) {
	bad := &fake.Driver{Fail: errors.New("unplugged")}
	good := &fake.Driver{}
	eng, err := render.NewEngine(oneShapeRoot(), bad, good)
	require.NoError(t, err)

	err = eng.RenderOnce(layout.Square(100, 100))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unplugged")
	assert.Equal(t, 1, good.Count())
	assert.Equal(t, 1, eng.DriverErrors()["fake"])

	require.NoError(t, eng.Close())
	assert.ErrorIs(t, good.Write(render.Frame{}), fake.ErrClosed)
}

func TestNewEngineNeedsShapes(t *testing.T) {
	_, err := render.NewEngine(surface.NewRoot())
	assert.Error(t, err)
}

func TestRasterizeDrawsShapeAtCenter(t *testing.T) {
	eng, err := render.NewEngine(oneShapeRoot())
	require.NoError(t, err)
	f := eng.Frame(layout.Square(100, 100))

	img := render.Rasterize(f, 100, 100)
	bg := color.RGBAModel.Convert(surface.Background).(color.RGBA)
	assert.NotEqual(t, bg, img.RGBAAt(50, 50))
	assert.Equal(t, bg, img.RGBAAt(1, 1))

	r, g, b := surface.Blue.Color().RGB255()
	c := img.RGBAAt(50, 50)
	assert.InDelta(t, r, c.R, 2)
	assert.InDelta(t, g, c.G, 2)
	assert.InDelta(t, b, c.B, 2)
}

func TestRasterizeFadedContainer(t *testing.T) {
	root := oneShapeRoot()
	root.SetOpacity(0)
	eng, err := render.NewEngine(root)
	require.NoError(t, err)
	img := render.Rasterize(eng.Frame(layout.Square(100, 100)), 40, 40)
	bg := color.RGBAModel.Convert(surface.Background).(color.RGBA)
	assert.Equal(t, bg, img.RGBAAt(20, 20))
}

func TestRasterizeBrightness(t *testing.T) {
	eng, err := render.NewEngine(oneShapeRoot())
	require.NoError(t, err)
	bg := color.RGBAModel.Convert(surface.Background).(color.RGBA)

	eng.SetParam(render.ParamBrightness, 0)
	img := render.Rasterize(eng.Frame(layout.Square(100, 100)), 100, 100)
	for y := 0; y < 100; y += 5 {
		for x := 0; x < 100; x += 5 {
			require.Equal(t, bg, img.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}

	// Half brightness sits between the background and the full fill.
	eng.SetParam(render.ParamBrightness, 0.5)
	half := render.Rasterize(eng.Frame(layout.Square(100, 100)), 100, 100).RGBAAt(50, 50)
	r, _, b := surface.Blue.Color().RGB255()
	assert.Greater(t, int(half.R), int(r)+10)
	assert.Less(t, int(half.R), int(bg.R)-10)

	// The unlit variant ignores brightness.
	unlit := render.RasterizeUnlit(eng.Frame(layout.Square(100, 100)), 100, 100).RGBAAt(50, 50)
	assert.InDelta(t, b, unlit.B, 2)
}

func TestSavePNG(t *testing.T) {
	eng, err := render.NewEngine(oneShapeRoot())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, render.SavePNG(path, eng.Frame(layout.Square(64, 64)), 64, 64))
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestLimitBudget(t *testing.T) {
	buf := make([]render.Color, 10)
	for i := range buf {
		buf[i] = render.Color{R: 1, G: 1, B: 1}
	}
	// 600 mA before limiting
	render.Limit(buf, render.LimitParams{ChanmA: 20, BudgetmA: 300, WhiteCap: 3, Knee: 0.9})
	assert.LessOrEqual(t, render.EstimateCurrent(buf, 20), 300.1)
}

func TestLimitWhiteCap(t *testing.T) {
	buf := []render.Color{{R: 1, G: 1, B: 1}}
	render.Limit(buf, render.LimitParams{WhiteCap: 1.5})
	assert.LessOrEqual(t, buf[0].R+buf[0].G+buf[0].B, float32(1.5001))
}

func TestSampleUsesSerpentine(t *testing.T) {
	eng, err := render.NewEngine(oneShapeRoot())
	require.NoError(t, err)
	p := layout.Panel{Dim: layout.Dim{X: 4, Y: 4}, Order: layout.Serpentine{XFlipEveryRow: true}}
	img := render.Rasterize(eng.Frame(layout.Square(4, 4)), 4, 4)
	buf := render.Sample(img, p, 1)
	require.Len(t, buf, 16)
	// Corner pixels are background; the background is warm, so red leads.
	assert.Greater(t, buf[p.Index(0, 0)].R, buf[p.Index(0, 0)].B)
}
