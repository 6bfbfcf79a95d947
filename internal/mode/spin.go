package mode

import (
	"math"
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/input"
)

// spinImpulse converts a pointer hit into an angular velocity change in
// degrees per second. r is the pointer offset from the shape center in
// pixels and v the pointer velocity in pixels per second.
func spinImpulse(r, v vec, t SpinTuning) float64 {
	torque := r.X*v.Y - r.Y*v.X
	return clampAbs(torque*t.Scale, t.Cap)
}

type spinner struct {
	rot   float64
	omega float64
}

type spin struct {
	env       *Env
	sc        *Scope
	t         SpinTuning
	ss        []spinner
	prev      input.Sample
	hasPrev   bool
	lastFrame time.Duration
	hasFrame  bool
}

func (s *spin) moved(cur input.Sample) {
	prev, had := s.prev, s.hasPrev
	s.prev, s.hasPrev = cur, true
	if !had || cur.At <= prev.At {
		return
	}
	dt := seconds(cur.At - prev.At)
	v := vec{(cur.PX - prev.PX) / dt, (cur.PY - prev.PY) / dt}

	vp := s.env.Host.Viewport()
	base := s.sc.Base()
	for i := range s.ss {
		p := base.At(i)
		st := p.Node.Style()
		box := vp.Bounds(st.Left, st.Top, p.Node.Extent, st.Scale, st.Rotate)
		if !box.Contains(cur.PX, cur.PY) {
			continue
		}
		cx, cy := box.Center()
		imp := spinImpulse(vec{cur.PX - cx, cur.PY - cy}, v, s.t)
		s.ss[i].omega = clampAbs(s.ss[i].omega+imp, s.t.Cap)
	}
}

func (s *spin) step(now time.Duration) {
	dt := 1.0 / 60
	if s.hasFrame && now > s.lastFrame {
		dt = seconds(now - s.lastFrame)
	}
	s.lastFrame, s.hasFrame = now, true

	decay := math.Pow(s.t.Damping, dt*60)
	base := s.sc.Base()
	for i := range s.ss {
		sp := &s.ss[i]
		if math.Abs(sp.omega) >= s.t.Threshold {
			sp.rot += sp.omega * dt
			st := base.Style(i)
			st.Rotate += sp.rot
			base.At(i).Node.SetStyle(st)
		}
		sp.omega *= decay
	}
}

func activateSpin(env *Env) Teardown {
	sc := newScope(env)
	s := &spin{env: env, sc: sc, t: env.Tuning.Spin, ss: make([]spinner, env.Base.Len())}
	sc.OnMove(s.moved)
	sc.Loop(s.step)
	return sc.Teardown
}
