package mode

import (
	"math"
	"math/rand"
	"time"
)

type vec struct{ X, Y float64 }

func (a vec) add(b vec) vec             { return vec{a.X + b.X, a.Y + b.Y} }
func (a vec) sub(b vec) vec             { return vec{a.X - b.X, a.Y - b.Y} }
func (a vec) scale(k float64) vec       { return vec{a.X * k, a.Y * k} }
func (a vec) norm() float64             { return math.Hypot(a.X, a.Y) }
func (a vec) lerp(b vec, t float64) vec { return a.add(b.sub(a).scale(t)) }

func (a vec) unit() (vec, bool) {
	l := a.norm()
	if l < 1e-9 {
		return vec{}, false
	}
	return a.scale(1 / l), true
}

func randomUnit(rng *rand.Rand) vec {
	a := rng.Float64() * 2 * math.Pi
	return vec{math.Cos(a), math.Sin(a)}
}

// spring is one damped blast offset, integrated once per frame.
type spring struct {
	off, vel vec
}

func (s *spring) step(k, damping float64) {
	s.vel = s.vel.add(s.off.scale(-k))
	s.vel = s.vel.scale(damping)
	s.off = s.off.add(s.vel)
}

// kick adds an outward impulse for a click at c when the shape sits at pos.
func (s *spring) kick(pos, c vec, t BlastTuning, rng *rand.Rand) {
	d := pos.sub(c)
	dist := d.norm()
	if dist >= t.Radius {
		return
	}
	dir, ok := d.unit()
	if !ok {
		dir = randomUnit(rng)
	}
	f := 1 - dist/t.Radius
	s.vel = s.vel.add(dir.scale(t.Impulse * f * f))
}

func clampAbs(x, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, x))
}

func seconds(d time.Duration) float64 { return d.Seconds() }

func uniform(rng *rand.Rand, max float64) float64 { return (rng.Float64()*2 - 1) * max }
