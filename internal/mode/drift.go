package mode

import (
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/input"
	"github.com/coreman2200/funtimes-shapefield/internal/shape"
)

type drifter struct {
	off, vel vec
	rot, spin float64
}

// drift moves every shape at a constant velocity and reflects it off the
// bounds. Velocity flips only after the rendered position has left the
// bounds, so a shape can overshoot by one frame of travel.
type drift struct {
	env *Env
	sc  *Scope
	t   DriftTuning
	ds  []drifter
}

func newDrift(env *Env, sc *Scope) *drift {
	d := &drift{env: env, sc: sc, t: env.Tuning.Drift}
	d.reset()
	return d
}

func (d *drift) reset() {
	base := d.sc.Base()
	d.ds = make([]drifter, base.Len())
	for i := range d.ds {
		d.ds[i] = drifter{
			vel:  vec{uniform(d.env.Rand, d.t.Speed), uniform(d.env.Rand, d.t.Speed)},
			spin: uniform(d.env.Rand, d.t.Spin),
		}
	}
}

func (d *drift) step(time.Duration) {
	base := d.sc.Base()
	for i := range d.ds {
		s := &d.ds[i]
		s.off = s.off.add(s.vel)
		s.rot += s.spin

		st := base.Style(i)
		st.Left += s.off.X
		st.Top += s.off.Y
		st.Rotate += s.rot
		if d.t.Bounds.Outside(st.Left) {
			s.vel.X = -s.vel.X
		}
		if d.t.Bounds.Outside(st.Top) {
			s.vel.Y = -s.vel.Y
		}
		base.At(i).Node.SetStyle(st)
	}
}

// regenerate swaps in a fresh BaseState that avoids the current token and
// restarts every shape from rest.
func (d *drift) regenerate(input.Sample) {
	exclude := d.env.Root.Token()
	var next shape.BaseState
	if d.env.Regenerate != nil {
		next = d.env.Regenerate(exclude)
	} else {
		next = shape.Generate(d.env.Root, d.env.Rand, exclude)
		shape.Apply(d.env.Root, next)
	}
	d.sc.Rebase(next)
	d.reset()
	d.env.Log.Debug().Str("prev", string(exclude)).Str("token", string(next.Token())).Msg("base regenerated")
}

func activateSlowDrift(env *Env) Teardown {
	sc := newScope(env)
	d := newDrift(env, sc)
	sc.OnClick(d.regenerate)
	sc.Loop(d.step)
	return sc.Teardown
}
