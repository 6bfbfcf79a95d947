package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// haloPasses is how many widened, faint copies stand in for a blur.
const haloPasses = 4

// Rasterize draws f at w×h pixels over the page background. Shapes are
// drawn back to front; container opacity, blur and the brightness param all
// apply. Brightness 0 leaves only the background.
func Rasterize(f Frame, w, h int) *image.RGBA {
	return raster(f, w, h, math.Max(0, math.Min(f.Brightness, 1)))
}

// RasterizeUnlit is Rasterize at full brightness. Outputs that scale light
// themselves (the LED panel) use it so brightness is applied once.
func RasterizeUnlit(f Frame, w, h int) *image.RGBA {
	return raster(f, w, h, 1)
}

func raster(f Frame, w, h int, gain float64) *image.RGBA {
	dc := gg.NewContext(w, h)
	dc.SetColor(surface.Background)
	dc.Clear()

	short := math.Min(float64(w), float64(h))
	blur := 0.0
	if f.ViewportW > 0 {
		blur = f.Snap.Blur * float64(w) / f.ViewportW
	}

	for _, s := range f.Snap.Shapes {
		alpha := s.Opacity * f.Snap.Opacity * gain
		if alpha <= 0 {
			continue
		}
		cx, cy := s.Left*float64(w), s.Top*float64(h)
		r := s.Extent * short * math.Abs(s.Scale) / 2
		if blur > 0 {
			for i := haloPasses; i >= 1; i-- {
				grow := blur * float64(i) / haloPasses
				drawShape(dc, s, cx, cy, r+grow, alpha/float64(haloPasses+2))
			}
		}
		drawShape(dc, s, cx, cy, r, alpha)
	}
	return dc.Image().(*image.RGBA)
}

// SavePNG renders f and writes it to path.
func SavePNG(path string, f Frame, w, h int) error {
	return gg.NewContextForRGBA(Rasterize(f, w, h)).SavePNG(path)
}

func drawShape(dc *gg.Context, s surface.ShapeView, cx, cy, r, alpha float64) {
	dc.Push()
	defer dc.Pop()
	dc.Translate(cx, cy)
	dc.Rotate(gg.Radians(s.Rotate))
	dc.SetFillRule(gg.FillRuleWinding)
	outline(dc, s.Template, r)
	dc.SetColor(s.Fill.RGBA(alpha))
	dc.Fill()
}

// outline traces template t centered on the origin with radius r.
func outline(dc *gg.Context, t surface.Template, r float64) {
	switch t {
	case surface.Arc:
		dc.DrawArc(0, 0, r, math.Pi, 2*math.Pi)
		dc.ClosePath()
	case surface.Blob:
		dc.DrawEllipse(0, 0, r, r*0.72)
	case surface.Star:
		for i := 0; i < 10; i++ {
			rr := r
			if i%2 == 1 {
				rr = r * 0.45
			}
			a := float64(i)*math.Pi/5 - math.Pi/2
			dc.LineTo(rr*math.Cos(a), rr*math.Sin(a))
		}
		dc.ClosePath()
	case surface.Ring:
		dc.SetFillRule(gg.FillRuleEvenOdd)
		dc.DrawCircle(0, 0, r)
		dc.DrawCircle(0, 0, r*0.55)
	case surface.Wedge:
		dc.MoveTo(0, 0)
		dc.DrawArc(0, 0, r, -math.Pi/3, math.Pi/3)
		dc.ClosePath()
	default:
		dc.DrawRectangle(-r, -r, 2*r, 2*r)
	}
}
