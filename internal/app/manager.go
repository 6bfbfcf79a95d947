package app

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-shapefield/internal/diagnostics"
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/input"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/persist"
	"github.com/coreman2200/funtimes-shapefield/internal/scheduler"
	"github.com/coreman2200/funtimes-shapefield/internal/shape"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

var ErrInactive = errors.New("shape root missing or empty")

// Indicator shows which mode is selected (a menu, a status line, a socket).
type Indicator interface {
	SetActive(m mode.Mode)
}

// IndicatorFunc adapts a func to Indicator.
type IndicatorFunc func(mode.Mode)

func (f IndicatorFunc) SetActive(m mode.Mode) { f(m) }

type ManagerOptions struct {
	Root       *surface.Root
	Host       *host.Host
	Rand       *rand.Rand
	Tuning     mode.Tuning
	Selection  persist.Selection
	Indicators []Indicator
	Diag       diag.Sink
	Log        zerolog.Logger
}

// Manager owns the BaseState and the active controller. Every mode switch
// goes through it. It is driven from the runner goroutine only.
type Manager struct {
	root   *surface.Root
	host   *host.Host
	sched  *scheduler.Scheduler
	router *input.Router
	rng    *rand.Rand
	tuning mode.Tuning
	sel    persist.Selection
	inds   []Indicator
	diag   diag.Sink
	log    zerolog.Logger

	base     *shape.BaseState
	teardown mode.Teardown
	active   mode.Mode
}

func NewManager(o ManagerOptions) *Manager {
	rng := o.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if o.Selection.Default == 0 {
		o.Selection.Default = int(mode.Static)
	}
	if o.Selection.Valid == nil {
		o.Selection.Valid = func(n int) bool { return mode.Mode(n).Valid() }
	}
	return &Manager{
		root:   o.Root,
		host:   o.Host,
		sched:  scheduler.New(o.Host),
		router: input.New(o.Host),
		rng:    rng,
		tuning: o.Tuning,
		sel:    o.Selection,
		inds:   o.Indicators,
		diag:   o.Diag,
		log:    o.Log,
	}
}

// AddIndicator registers another selection display.
func (m *Manager) AddIndicator(i Indicator) { m.inds = append(m.inds, i) }

// Active is the running mode, 0 before the first switch.
func (m *Manager) Active() mode.Mode { return m.active }

// Base returns the current BaseState, if one was generated.
func (m *Manager) Base() (shape.BaseState, bool) {
	if m.base == nil {
		return shape.BaseState{}, false
	}
	return *m.base, true
}

// Start activates the remembered mode, or Static.
func (m *Manager) Start() (mode.Mode, error) {
	id, err := m.sel.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("stored mode unreadable; using default")
	}
	target := mode.Mode(id)
	return target, m.SwitchTo(target)
}

// SwitchTo retires the active controller and activates id from a clean
// base.
func (m *Manager) SwitchTo(id mode.Mode) error {
	if !id.Valid() {
		m.diag.Push(diag.Diagnostic{Severity: diag.Warn, Code: diag.ModeUnknown,
			Summary: "unknown mode requested", Evidence: map[string]any{"mode": int(id)}})
		return fmt.Errorf("%w: %d", mode.ErrUnknownMode, int(id))
	}
	if !m.root.Active() {
		m.diag.Push(diag.Diagnostic{Severity: diag.Info, Code: diag.EngineInactive,
			Summary: "no shapes to animate"})
		return ErrInactive
	}

	prev := m.active
	m.retire()

	if m.base == nil {
		b := shape.Generate(m.root, m.rng, "")
		m.base = &b
	}
	shape.Apply(m.root, *m.base)

	td, err := mode.Activate(id, &mode.Env{
		Root:       m.root,
		Base:       *m.base,
		Regenerate: m.regenerate,
		Host:       m.host,
		Router:     m.router,
		Sched:      m.sched,
		Rand:       m.rng,
		Tuning:     m.tuning,
		Log:        m.log.With().Stringer("mode", id).Logger(),
	})
	if err != nil {
		return err
	}
	m.teardown = td
	m.active = id

	if err := m.sel.Save(int(id)); err != nil {
		m.log.Warn().Err(err).Int("mode", int(id)).Msg("could not persist mode")
		m.diag.Push(diag.Diagnostic{Severity: diag.Warn, Code: diag.PersistFail,
			Summary: "mode selection not saved", Detail: err.Error()})
	}
	m.root.SetAttr(surface.AttrMode, strconv.Itoa(int(id)))
	for _, ind := range m.inds {
		ind.SetActive(id)
	}

	m.log.Info().Stringer("mode", id).Stringer("prev", prev).Str("token", string(m.root.Token())).Msg("mode active")
	m.diag.Push(diag.Diagnostic{Severity: diag.Info, Code: diag.ModeSwitch, Summary: id.String(),
		Evidence: map[string]any{"mode": int(id), "prev": int(prev)}})
	return nil
}

// Stop retires the active controller and leaves the base applied.
func (m *Manager) Stop() {
	m.retire()
	m.active = 0
}

// retire runs the current teardown. A panicking teardown is logged and
// otherwise ignored.
func (m *Manager) retire() {
	td := m.teardown
	m.teardown = nil
	if td == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn().Interface("panic", r).Stringer("mode", m.active).Msg("teardown panicked")
			m.diag.Push(diag.Diagnostic{Severity: diag.Warn, Code: diag.TeardownPanic,
				Summary: "controller teardown failed", Detail: fmt.Sprint(r)})
		}
	}()
	td()
}

// regenerate replaces the shared BaseState wholesale.
func (m *Manager) regenerate(exclude surface.Token) shape.BaseState {
	b := shape.Generate(m.root, m.rng, exclude)
	shape.Apply(m.root, b)
	m.base = &b
	return b
}

// ChainsStarted counts animation loops started since the manager was built.
func (m *Manager) ChainsStarted() uint64 { return m.sched.Started() }
