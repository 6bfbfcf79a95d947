package mode

import (
	"math"
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/input"
)

// shakeEase is the cubic ease-out of the amplitude ramp at progress t.
func shakeEase(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	u := 1 - t
	return 1 - u*u*u
}

func activateShake(env *Env) Teardown {
	sc := newScope(env)
	t := env.Tuning.Shake
	phases := make([]float64, env.Base.Len())
	for i := range phases {
		phases[i] = env.Rand.Float64() * 2 * math.Pi
	}
	rampStart := env.Host.Now()

	// A click restarts the ramp later, even from full amplitude.
	sc.OnClick(func(s input.Sample) { rampStart = s.At + t.ClickDelay })
	sc.Loop(func(now time.Duration) {
		ease := 1.0
		if t.Ramp > 0 {
			ease = shakeEase(seconds(now-rampStart) / seconds(t.Ramp))
		}
		base := sc.Base()
		sec := seconds(now)
		for i := range phases {
			st := base.Style(i)
			wave := math.Sin(2*math.Pi*t.FrequencyHz*sec + phases[i])
			st.Left = t.Bounds.Clamp(st.Left + wave*t.Amplitude*ease)
			base.At(i).Node.SetStyle(st)
		}
	})
	return sc.Teardown
}
