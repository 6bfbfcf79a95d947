package host

import (
	"sync"
	"time"
)

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// RealClock measures wall time since it was created.
type RealClock struct{ start time.Time }

func NewRealClock() *RealClock { return &RealClock{start: time.Now()} }

func (c *RealClock) Now() time.Duration { return time.Since(c.start) }

// ManualClock only moves when told to. Tests and the headless frontend
// drive it one frame at a time.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// FrameInterval is one frame at 60 Hz.
const FrameInterval = time.Second / 60

// Step advances clock by one frame and ticks h. It is the headless
// equivalent of one display refresh.
func Step(h *Host, clock *ManualClock) {
	clock.Advance(FrameInterval)
	h.Tick()
}

// StepN runs n frames.
func StepN(h *Host, clock *ManualClock, n int) {
	for i := 0; i < n; i++ {
		Step(h, clock)
	}
}
