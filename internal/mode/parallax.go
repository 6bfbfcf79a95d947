package mode

import (
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/input"
)

// activateParallax offsets shapes with the pointer, deeper shapes further.
func activateParallax(env *Env) Teardown {
	sc := newScope(env)
	t := env.Tuning.Parallax
	ptr := vec{0.5, 0.5}
	invX, invY := 1.0, 1.0
	if t.InvertX {
		invX = -1
	}
	if t.InvertY {
		invY = -1
	}

	sc.OnMove(func(s input.Sample) { ptr = vec{s.X, s.Y} })
	sc.Loop(func(time.Duration) {
		base := sc.Base()
		n := base.Len()
		dx := (ptr.X - 0.5) * t.MoveScale * invX
		dy := (ptr.Y - 0.5) * t.MoveScale * invY
		for i := 0; i < n; i++ {
			depth := float64(i+1) / float64(n+1)
			factor := t.DepthBase + depth*t.DepthRange
			st := base.Style(i)
			st.Left += dx * factor
			st.Top += dy * factor
			st.Rotate += (dx - dy) * t.RotationScale * depth
			base.At(i).Node.SetStyle(st)
		}
	})
	return sc.Teardown
}
