// Package mode holds the eleven shape controllers and the closed table that
// dispatches a mode id to its constructor.
package mode

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/input"
	"github.com/coreman2200/funtimes-shapefield/internal/scheduler"
	"github.com/coreman2200/funtimes-shapefield/internal/shape"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// Mode is a controller id, 1 through 11.
type Mode int

const (
	Static Mode = iota + 1
	SlowDrift
	CursorParallax
	ShakeRamp
	MagneticLocal
	MagneticGlobal
	RepelCursor
	SwapOnHover
	SpinOnHit
	BlastOnly
	DriftIdleFade
)

// Count is the number of modes.
const Count = 11

var ErrUnknownMode = errors.New("unknown mode")

var names = [Count + 1]string{
	Static:         "static",
	SlowDrift:      "slow-drift",
	CursorParallax: "cursor-parallax",
	ShakeRamp:      "shake-ramp",
	MagneticLocal:  "magnetic-local",
	MagneticGlobal: "magnetic-global",
	RepelCursor:    "repel-cursor",
	SwapOnHover:    "swap-on-hover",
	SpinOnHit:      "spin-on-hit",
	BlastOnly:      "blast-only",
	DriftIdleFade:  "drift-idle-fade",
}

func (m Mode) Valid() bool { return m >= Static && m <= DriftIdleFade }

func (m Mode) String() string {
	if !m.Valid() {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return names[m]
}

// Parse accepts a decimal id or a mode name.
func Parse(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if m := Mode(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownMode, n)
	}
	for m := Static; m <= DriftIdleFade; m++ {
		if names[m] == strings.ToLower(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// All lists every mode in id order.
func All() []Mode {
	out := make([]Mode, 0, Count)
	for m := Static; m <= DriftIdleFade; m++ {
		out = append(out, m)
	}
	return out
}

// Env is what a controller is activated with.
type Env struct {
	Root *surface.Root
	Base shape.BaseState
	// Regenerate replaces the shared BaseState with a new one that avoids
	// exclude, applies it, and returns it. May be nil.
	Regenerate func(exclude surface.Token) shape.BaseState

	Host   *host.Host
	Router *input.Router
	Sched  *scheduler.Scheduler
	Rand   *rand.Rand
	Tuning Tuning
	Log    zerolog.Logger
}

// Teardown retires a controller. Calling it again only reapplies the base.
type Teardown func()

// Factory activates one controller.
type Factory func(env *Env) Teardown

var factories = [Count + 1]Factory{
	Static:         activateStatic,
	SlowDrift:      activateSlowDrift,
	CursorParallax: activateParallax,
	ShakeRamp:      activateShake,
	MagneticLocal:  activateMagnetLocal,
	MagneticGlobal: activateMagnetGlobal,
	RepelCursor:    activateRepel,
	SwapOnHover:    activateSwap,
	SpinOnHit:      activateSpin,
	BlastOnly:      activateBlast,
	DriftIdleFade:  activateDriftIdle,
}

// Activate starts controller m. The base is applied before the controller
// registers anything.
func Activate(m Mode, env *Env) (Teardown, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	if env.Rand == nil {
		env.Rand = rand.New(rand.NewSource(1))
	}
	shape.Apply(env.Root, env.Base)
	return factories[m](env), nil
}
