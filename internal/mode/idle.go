package mode

import (
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/input"
)

// idleFade dims and blurs the whole shape container after a stretch with
// no pointer movement.
type idleFade struct {
	env      *Env
	t        IdleTuning
	lastMove time.Duration
}

func (f *idleFade) moved(s input.Sample) {
	f.lastMove = s.At
	f.env.Root.SetOpacity(1)
	f.env.Root.SetBlur(0)
}

func (f *idleFade) step(now time.Duration) {
	idle := now - f.lastMove
	if idle < f.t.Threshold {
		return
	}
	t := 1.0
	if f.t.Fade > 0 {
		t = seconds(idle-f.t.Threshold) / seconds(f.t.Fade)
		if t > 1 {
			t = 1
		}
	}
	f.env.Root.SetOpacity(1 - t)
	f.env.Root.SetBlur(t * f.t.MaxBlur)
}

func activateDriftIdle(env *Env) Teardown {
	sc := newScope(env)
	d := newDrift(env, sc)
	f := &idleFade{env: env, t: env.Tuning.Idle, lastMove: env.Host.Now()}
	sc.OnMove(f.moved)
	sc.Loop(func(now time.Duration) {
		d.step(now)
		f.step(now)
	})
	return sc.Teardown
}
