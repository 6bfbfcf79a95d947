package app

import (
	"context"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/sequence"
)

// KeyMode maps selector keys to modes: 1-9, 0 for 10, '-' for 11.
func KeyMode(k rune) (mode.Mode, bool) {
	switch {
	case k >= '1' && k <= '9':
		return mode.Mode(k - '0'), true
	case k == '0':
		return mode.BlastOnly, true
	case k == '-':
		return mode.DriftIdleFade, true
	}
	return 0, false
}

// IsQuit reports whether k asks to exit.
func IsQuit(k rune) bool { return k == 'q' || k == 'Q' || k == 0x1b }

// Key handles one key press from a frontend. Mode keys switch modes, 'r'
// regenerates while SlowDrift is active by clicking where the pointer last
// was, 'p' pauses or resumes autoplay. It reports whether the key asked to
// quit.
func (r *Runner) Key(ctx context.Context, k rune) bool {
	if IsQuit(k) {
		return true
	}
	if m, ok := KeyMode(k); ok {
		if err := r.SwitchTo(ctx, m); err != nil {
			r.Log.Warn().Err(err).Msg("switch failed")
		}
		return false
	}
	if k == 'p' || k == 'P' {
		_ = r.Do(ctx, r.toggleAutoplay)
		return false
	}
	if k == 'r' || k == 'R' {
		_ = r.Do(ctx, func() {
			if r.Mgr.Active() != mode.SlowDrift {
				return
			}
			x, y := r.lastX, r.lastY
			if !r.hasPointer {
				vp := r.Host.Viewport()
				x, y = vp.Pixels(0.5, 0.5)
			}
			r.Host.Dispatch(host.Tap(x, y))
		})
	}
	return false
}

func (r *Runner) toggleAutoplay() {
	if r.Seq == nil {
		return
	}
	switch r.Seq.State {
	case sequence.Running:
		r.Seq.Pause()
	case sequence.Paused:
		r.Seq.Resume()
	default:
		return
	}
	r.Log.Info().Str("state", string(r.Seq.State)).Msg("autoplay")
}
