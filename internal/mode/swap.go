package mode

import (
	"github.com/coreman2200/funtimes-shapefield/internal/input"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// swapper exchanges node templates when the pointer crosses into another
// viewport third. It has no frame loop.
type swapper struct {
	env      *Env
	sc       *Scope
	zone     int
	hasZone  bool
	original map[*surface.Node]surface.Template
	swaps    int
}

func (w *swapper) moved(s input.Sample) {
	z := w.env.Host.Viewport().Zone(s.X, s.Y)
	if !w.hasZone {
		w.zone, w.hasZone = z, true
		return
	}
	if z == w.zone {
		return
	}
	w.zone = z
	w.swap(z)
}

func (w *swapper) swap(z int) {
	base := w.sc.Base()
	n := base.Len()
	if n < 2 {
		return
	}
	i := z % n
	j := w.env.Rand.Intn(n - 1)
	if j >= i {
		j++
	}
	a, b := base.At(i).Node, base.At(j).Node
	ta, tb := a.Template(), b.Template()
	a.SetTemplate(tb)
	b.SetTemplate(ta)
	w.swaps++
	w.env.Log.Debug().Int("zone", z).Str("a", a.ID).Str("b", b.ID).Msg("templates swapped")
}

func (w *swapper) restore() {
	for n, t := range w.original {
		n.SetTemplate(t)
	}
}

func newSwapper(env *Env, sc *Scope) *swapper {
	w := &swapper{env: env, sc: sc, original: map[*surface.Node]surface.Template{}}
	for _, n := range env.Root.Nodes() {
		w.original[n] = n.Template()
	}
	return w
}

func activateSwap(env *Env) Teardown {
	sc := newScope(env)
	w := newSwapper(env, sc)
	sc.OnMove(w.moved)
	sc.Defer(w.restore)
	return sc.Teardown
}
