// Package scheduler keeps at most one continuous frame-callback chain alive
// on a host.
package scheduler

import (
	"time"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
)

// StepFunc is one frame of a controller's simulation.
type StepFunc func(now time.Duration)

// Scheduler owns the single chain. Starting a new chain stops the previous
// one before the new chain's first frame is requested.
type Scheduler struct {
	h       *host.Host
	current *Chain
	started uint64
}

func New(h *host.Host) *Scheduler { return &Scheduler{h: h} }

// Chain is a handle to a running frame loop.
type Chain struct {
	s       *Scheduler
	step    StepFunc
	pending host.FrameID
	live    bool
	frames  uint64
}

// Start cancels any running chain and begins a new one whose first step runs
// on the next host tick.
func (s *Scheduler) Start(step StepFunc) *Chain {
	if s.current != nil {
		s.current.Stop()
	}
	c := &Chain{s: s, step: step, live: true}
	s.current = c
	s.started++
	c.request()
	return c
}

// Active reports whether a chain is running.
func (s *Scheduler) Active() bool { return s.current != nil && s.current.live }

// Started counts chains ever started.
func (s *Scheduler) Started() uint64 { return s.started }

// Stop cancels the running chain, if any.
func (s *Scheduler) Stop() {
	if s.current != nil {
		s.current.Stop()
	}
}

func (c *Chain) request() {
	c.pending = c.s.h.RequestFrame(c.run)
}

func (c *Chain) run(now time.Duration) {
	c.pending = 0
	if !c.live {
		return
	}
	c.frames++
	c.step(now)
	// The step may have stopped this chain or started another.
	if c.live && c.s.current == c {
		c.request()
	}
}

// Stop cancels the pending frame. It is safe to call more than once.
func (c *Chain) Stop() {
	if c == nil || !c.live {
		return
	}
	c.live = false
	if c.pending != 0 {
		c.s.h.CancelFrame(c.pending)
		c.pending = 0
	}
	if c.s.current == c {
		c.s.current = nil
	}
}

// Live reports whether the chain is still scheduled.
func (c *Chain) Live() bool { return c != nil && c.live }

// Frames is the number of steps the chain has run.
func (c *Chain) Frames() uint64 { return c.frames }
