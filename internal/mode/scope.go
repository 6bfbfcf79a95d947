package mode

import (
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/input"
	"github.com/coreman2200/funtimes-shapefield/internal/scheduler"
	"github.com/coreman2200/funtimes-shapefield/internal/shape"
)

// Scope is the set of handles one controller acquired. Release gives every
// one of them back.
type Scope struct {
	env       *Env
	base      shape.BaseState
	listeners []host.ListenerID
	chain     *scheduler.Chain
	restore   []func()
	released  bool
}

func newScope(env *Env) *Scope { return &Scope{env: env, base: env.Base} }

func (s *Scope) OnMove(fn func(input.Sample)) {
	s.listeners = append(s.listeners, s.env.Router.OnMove(fn)...)
}

func (s *Scope) OnClick(fn func(input.Sample)) {
	s.listeners = append(s.listeners, s.env.Router.OnClick(fn))
}

// Loop starts the controller's frame chain.
func (s *Scope) Loop(step scheduler.StepFunc) {
	s.chain = s.env.Sched.Start(step)
}

// Defer registers fn to run on teardown before the base is reapplied.
func (s *Scope) Defer(fn func()) { s.restore = append(s.restore, fn) }

// Base is the BaseState teardown restores.
func (s *Scope) Base() shape.BaseState { return s.base }

// Rebase swaps in a regenerated BaseState.
func (s *Scope) Rebase(b shape.BaseState) { s.base = b }

// Release drops every listener and cancels the frame chain.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for _, id := range s.listeners {
		s.env.Host.RemoveListener(id)
	}
	s.listeners = nil
	s.chain.Stop()
	s.chain = nil
}

// Teardown releases the handles, undoes controller extras in reverse order
// and reapplies the base.
func (s *Scope) Teardown() {
	s.Release()
	for i := len(s.restore) - 1; i >= 0; i-- {
		s.restore[i]()
	}
	s.restore = nil
	shape.Apply(s.env.Root, s.base)
}
