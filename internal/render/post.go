package render

import (
	"image"
	"math"

	"github.com/coreman2200/funtimes-shapefield/internal/layout"
)

// LimitParams configure Limit.
type LimitParams struct {
	WhiteCap float64 // max R+G+B per LED, 3 disables
	ChanmA   float64 // mA per channel at full scale
	BudgetmA float64 // 0 disables the budget stage
	Knee     float64 // fraction of budget where soft limiting starts
}

func DefaultLimitParams() LimitParams {
	return LimitParams{WhiteCap: 3, ChanmA: 20, Knee: 0.9}
}

// Limit applies a per-LED white cap, then scales the whole frame so the
// estimated current stays under the budget.
func Limit(buf []Color, p LimitParams) {
	if p.WhiteCap <= 0 {
		p.WhiteCap = 3
	}
	if p.ChanmA <= 0 {
		p.ChanmA = 20
	}
	if p.Knee <= 0 || p.Knee >= 1 {
		p.Knee = 0.9
	}

	wc := float32(p.WhiteCap)
	for i := range buf {
		s := buf[i].R + buf[i].G + buf[i].B
		if s > wc && s > 0 {
			scale := wc / s
			buf[i].R *= scale
			buf[i].G *= scale
			buf[i].B *= scale
		}
	}

	if p.BudgetmA <= 0 {
		return
	}
	total := EstimateCurrent(buf, p.ChanmA)
	if total <= 0 {
		return
	}
	ratio := total / p.BudgetmA
	if ratio <= p.Knee {
		return
	}
	minS := math.Min(1, p.BudgetmA/total)
	if ratio <= 1 {
		// ease from 1 at the knee down to minS at the budget
		t := (ratio - p.Knee) / (1 - p.Knee)
		applyGlobalScale(buf, float32(1-t*(1-minS)))
		return
	}
	applyGlobalScale(buf, float32(minS))
}

// EstimateCurrent sums channel current in mA.
func EstimateCurrent(buf []Color, chanmA float64) float64 {
	var total float64
	for i := range buf {
		total += float64(buf[i].R+buf[i].G+buf[i].B) * chanmA
	}
	return total
}

func applyGlobalScale(buf []Color, s float32) {
	if s >= 1 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

// Sample maps an image already sized to the panel onto strip order,
// converting sRGB to linear and scaling by brightness.
func Sample(img *image.RGBA, p layout.Panel, brightness float64) []Color {
	out := make([]Color, p.Count())
	b := img.Bounds()
	for y := 0; y < p.Dim.Y && y < b.Dy(); y++ {
		for x := 0; x < p.Dim.X && x < b.Dx(); x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			out[p.Index(x, y)] = Color{
				R: linear(c.R, brightness),
				G: linear(c.G, brightness),
				B: linear(c.B, brightness),
			}
		}
	}
	return out
}

func linear(v uint8, k float64) float32 {
	return float32(math.Pow(float64(v)/255, 2.2) * k)
}
