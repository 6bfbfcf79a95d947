package mode

import (
	"math"
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/input"
)

// falloff maps a shape-to-pointer vector to the offset the shape eases
// toward.
type falloff func(d vec, t MagnetTuning) vec

// localPull pulls toward the pointer, fading to nothing at the radius.
func localPull(d vec, t MagnetTuning) vec {
	if t.Radius <= 0 {
		return vec{}
	}
	s := math.Max(0, 1-d.norm()/t.Radius)
	return d.scale(t.Strength * s * s)
}

// globalPull pulls hardest on far shapes and keeps a floor of bias on near
// ones.
func globalPull(d vec, t MagnetTuning) vec {
	return d.scale(t.Strength * biasCurve(d.norm()/maxDistance(t), t))
}

// repelPush pushes away from the pointer, hardest when near.
func repelPush(d vec, t MagnetTuning) vec {
	dir, ok := d.unit()
	if !ok {
		return vec{}
	}
	return dir.scale(-t.Strength * biasCurve(1-d.norm()/maxDistance(t), t))
}

func maxDistance(t MagnetTuning) float64 {
	if t.MaxDistance > 0 {
		return t.MaxDistance
	}
	return math.Sqrt2
}

func biasCurve(frac float64, t MagnetTuning) float64 {
	frac = math.Max(0, math.Min(1, frac))
	return t.Bias + (1-t.Bias)*math.Pow(frac, t.Exponent)
}

type magnet struct {
	env    *Env
	sc     *Scope
	t      MagnetTuning
	fall   falloff
	ptr    vec
	seen   bool
	offs   []vec
	blasts []spring // nil unless the blast layer is on
}

func newMagnet(env *Env, sc *Scope, t MagnetTuning, fall falloff) *magnet {
	return &magnet{env: env, sc: sc, t: t, fall: fall, offs: make([]vec, env.Base.Len())}
}

func (m *magnet) moved(s input.Sample) {
	m.ptr = vec{s.X, s.Y}
	m.seen = true
}

func (m *magnet) withBlast() *magnet {
	m.blasts = make([]spring, len(m.offs))
	return m
}

// rendered is where shape i is drawn right now, in viewport fractions.
func (m *magnet) rendered(i int) vec {
	p := m.sc.Base().At(i)
	pos := vec{p.Left, p.Top}.add(m.offs[i])
	if m.blasts != nil {
		pos = pos.add(m.blasts[i].off)
	}
	return pos
}

func (m *magnet) clicked(s input.Sample) {
	c := vec{s.X, s.Y}
	for i := range m.blasts {
		m.blasts[i].kick(m.rendered(i), c, m.env.Tuning.Blast, m.env.Rand)
	}
}

func (m *magnet) step(time.Duration) {
	base := m.sc.Base()
	bt := m.env.Tuning.Blast
	for i := range m.offs {
		p := base.At(i)
		var target vec
		if m.seen {
			target = m.fall(m.ptr.sub(vec{p.Left, p.Top}), m.t)
		}
		// Fixed per-frame smoothing, not scaled by frame time.
		m.offs[i] = m.offs[i].lerp(target, m.t.Smoothing)

		off := m.offs[i]
		if m.blasts != nil {
			m.blasts[i].step(bt.Spring, bt.Damping)
			off = off.add(m.blasts[i].off)
		}
		st := base.Style(i)
		st.Left += off.X
		st.Top += off.Y
		st.Rotate += m.offs[i].X * m.t.RotationGain
		p.Node.SetStyle(st)
	}
}

func activateMagnetLocal(env *Env) Teardown {
	sc := newScope(env)
	m := newMagnet(env, sc, env.Tuning.Local, localPull)
	sc.OnMove(m.moved)
	sc.Loop(m.step)
	return sc.Teardown
}

func activateMagnetGlobal(env *Env) Teardown {
	sc := newScope(env)
	m := newMagnet(env, sc, env.Tuning.Global, globalPull).withBlast()
	sc.OnMove(m.moved)
	sc.OnClick(m.clicked)
	sc.Loop(m.step)
	return sc.Teardown
}

func activateRepel(env *Env) Teardown {
	sc := newScope(env)
	m := newMagnet(env, sc, env.Tuning.Repel, repelPush)
	sc.OnMove(m.moved)
	sc.Loop(m.step)
	return sc.Teardown
}

// activateBlast is the blast layer alone: shapes rest at their base until a
// click knocks them away.
func activateBlast(env *Env) Teardown {
	sc := newScope(env)
	m := newMagnet(env, sc, MagnetTuning{}, func(vec, MagnetTuning) vec { return vec{} }).withBlast()
	sc.OnClick(m.clicked)
	sc.Loop(m.step)
	return sc.Teardown
}
