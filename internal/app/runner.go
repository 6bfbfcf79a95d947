package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-shapefield/internal/diagnostics"
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/sequence"
)

// Runner is the single goroutine that owns the host, the manager and every
// controller. Other goroutines reach engine state only through Events and
// Do.
type Runner struct {
	Host *host.Host
	Mgr  *Manager
	Eng  *render.Engine
	Seq  *sequence.Player
	FPS  int
	Diag diag.Sink
	Log  zerolog.Logger

	events chan host.Event
	cmds   chan func()

	lastX, lastY float64
	hasPointer   bool
	lastTick     time.Time
	writeFails   int
}

func NewRunner(h *host.Host, mgr *Manager, eng *render.Engine, seq *sequence.Player, fps int, log zerolog.Logger) *Runner {
	if fps <= 0 {
		fps = 60
	}
	return &Runner{
		Host:   h,
		Mgr:    mgr,
		Eng:    eng,
		Seq:    seq,
		FPS:    fps,
		Log:    log,
		events: make(chan host.Event, 256),
		cmds:   make(chan func(), 16),
	}
}

// Post queues an input event without blocking. Events arriving faster than
// the runner drains them are dropped.
func (r *Runner) Post(ev host.Event) bool {
	select {
	case r.events <- ev:
		return true
	default:
		return false
	}
}

// Do runs fn on the runner goroutine and waits for it.
func (r *Runner) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case r.cmds <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PostFraction queues a pointer move or click given in viewport fractions.
// The runner converts it with the viewport current at delivery.
func (r *Runner) PostFraction(kind host.EventKind, fx, fy float64) bool {
	select {
	case r.cmds <- func() {
		x, y := r.Host.Viewport().Pixels(fx, fy)
		r.dispatch(host.Event{Kind: kind, X: x, Y: y, HasPoint: true})
	}:
		return true
	default:
		return false
	}
}

// SwitchTo asks the runner to switch modes.
func (r *Runner) SwitchTo(ctx context.Context, m mode.Mode) error {
	var err error
	if derr := r.Do(ctx, func() { err = r.Mgr.SwitchTo(m) }); derr != nil {
		return derr
	}
	return err
}

// Stats reports engine counters for health checks. It runs on the runner
// goroutine.
func (r *Runner) Stats(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	err := r.Do(ctx, func() {
		out["listeners"] = r.Host.ListenerCount()
		out["pending_frames"] = r.Host.PendingFrames()
		out["chains_started"] = r.Mgr.ChainsStarted()
		if r.Eng != nil {
			out["brightness"] = r.Eng.Param(render.ParamBrightness)
			out["driver_errors"] = r.Eng.DriverErrors()
		}
		if r.Seq != nil {
			out["autoplay"] = string(r.Seq.State)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Run drives frames, input and commands until ctx ends. It then retires
// the active controller.
func (r *Runner) Run(ctx context.Context) error {
	dt := time.Second / time.Duration(r.FPS)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	defer r.Mgr.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			r.dispatch(ev)
		case fn := <-r.cmds:
			fn()
		case <-ticker.C:
			r.Frame()
		}
	}
}

// Frame advances autoplay, runs pending frame callbacks and renders.
func (r *Runner) Frame() {
	now := time.Now()
	if r.Seq != nil && !r.lastTick.IsZero() {
		r.Seq.Tick(now.Sub(r.lastTick).Seconds())
	}
	r.lastTick = now

	r.Host.Tick()
	if r.Eng == nil {
		return
	}
	if err := r.Eng.RenderOnce(r.Host.Viewport()); err != nil {
		r.writeFails++
		// one line per second of failures is plenty
		if (r.writeFails-1)%r.FPS == 0 {
			r.Log.Warn().Err(err).Int("failures", r.writeFails).Msg("driver write failed")
			r.Diag.Push(diag.Diagnostic{Severity: diag.Warn, Code: diag.DriverWriteFail,
				Summary: "output driver write failed", Detail: err.Error()})
		}
	}
}

func (r *Runner) dispatch(ev host.Event) {
	if ev.Kind == host.PointerMove || ev.Kind == host.Click {
		if x, y, ok := pointOf(ev); ok {
			r.lastX, r.lastY, r.hasPointer = x, y, true
		}
	}
	r.Host.Dispatch(ev)
}

func pointOf(ev host.Event) (float64, float64, bool) {
	if ev.HasPoint {
		return ev.X, ev.Y, true
	}
	if len(ev.Touches) > 0 {
		return ev.Touches[0].X, ev.Touches[0].Y, true
	}
	return 0, 0, false
}
