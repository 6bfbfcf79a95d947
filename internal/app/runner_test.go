package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-shapefield/internal/config"
	"github.com/coreman2200/funtimes-shapefield/internal/driver/fake"
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/persist"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/sequence"
)

func TestKeyMode(t *testing.T) {
	cases := map[rune]mode.Mode{'1': mode.Static, '5': mode.MagneticLocal, '9': mode.SpinOnHit, '0': mode.BlastOnly, '-': mode.DriftIdleFade}
	for k, want := range cases {
		got, ok := KeyMode(k)
		assert.True(t, ok, string(k))
		assert.Equal(t, want, got)
	}
	_, ok := KeyMode('x')
	assert.False(t, ok)
	assert.True(t, IsQuit('q'))
	assert.False(t, IsQuit('r'))
}

func newCore(t *testing.T, edit func(*config.Config)) (*Core, *fake.Driver, *persist.MemStore) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 5
	cfg.FPS = 120
	cfg.StatePath = filepath.Join(t.TempDir(), "state.yaml")
	if edit != nil {
		edit(cfg)
	}
	drv := &fake.Driver{}
	store := persist.NewMemStore()
	core, err := InitCore(cfg, CoreOptions{Store: store, Drivers: []render.Driver{drv}, Log: zerolog.Nop()})
	require.NoError(t, err)
	return core, drv, store
}

func TestRunnerOwnsEngineState(t *testing.T) {
	core, drv, store := newCore(t, nil)
	_, err := core.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- core.Runner.Run(ctx) }()

	require.Eventually(t, func() bool { return drv.Count() > 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, core.Runner.SwitchTo(ctx, mode.CursorParallax))
	assert.ErrorIs(t, core.Runner.SwitchTo(ctx, mode.Mode(0)), mode.ErrUnknownMode)
	assert.True(t, core.Runner.Post(host.Pointer(10, 10)))

	require.Eventually(t, func() bool { return drv.Last().Snap.Mode == 3 }, 2*time.Second, 5*time.Millisecond)
	raw, _, _ := store.Get(persist.DefaultKey)
	assert.Equal(t, "3", raw)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, core.Host.ListenerCount())
	assert.Equal(t, 0, core.Host.PendingFrames())
}

func TestKeyRegeneratesOnlyInSlowDrift(t *testing.T) {
	core, _, _ := newCore(t, nil)
	_, err := core.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = core.Runner.Run(ctx) }()

	token := func() string {
		var s string
		require.NoError(t, core.Runner.Do(ctx, func() { s = string(core.Root.Token()) }))
		return s
	}

	before := token()
	assert.False(t, core.Runner.Key(ctx, 'r'))
	assert.Equal(t, before, token())

	assert.False(t, core.Runner.Key(ctx, '2'))
	assert.False(t, core.Runner.Key(ctx, 'r'))
	assert.NotEqual(t, before, token())
	assert.True(t, core.Runner.Key(ctx, 'q'))
}

func TestAutoplayOverridesStoredMode(t *testing.T) {
	core, _, store := newCore(t, func(c *config.Config) {
		c.Autoplay.Enabled = true
		c.Autoplay.Clips = []config.Clip{{Mode: 6, DurationS: 0.05}, {Mode: 10, DurationS: 10}}
	})
	require.NoError(t, store.Set(persist.DefaultKey, "4"))
	m, err := core.Start()
	require.NoError(t, err)
	assert.Equal(t, mode.MagneticGlobal, m)

	core.Runner.Frame()
	time.Sleep(80 * time.Millisecond)
	core.Runner.Frame()
	assert.Equal(t, mode.BlastOnly, core.Mgr.Active())
}

func TestInitCoreRejectsEmptyShapes(t *testing.T) {
	cfg := config.Default()
	cfg.Shapes = nil
	_, err := InitCore(cfg, CoreOptions{Store: persist.NewMemStore(), Log: zerolog.Nop()})
	assert.ErrorIs(t, err, ErrInactive)
}

func TestKeyTogglesAutoplay(t *testing.T) {
	core, _, _ := newCore(t, func(c *config.Config) {
		c.Autoplay.Enabled = true
		c.Autoplay.Clips = []config.Clip{{Mode: 2, DurationS: 30}}
	})
	_, err := core.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = core.Runner.Run(ctx) }()

	state := func() sequence.PlayerState {
		var s sequence.PlayerState
		require.NoError(t, core.Runner.Do(ctx, func() { s = core.Seq.State }))
		return s
	}
	assert.Equal(t, sequence.Running, state())
	assert.False(t, core.Runner.Key(ctx, 'p'))
	assert.Equal(t, sequence.Paused, state())
	assert.False(t, core.Runner.Key(ctx, 'p'))
	assert.Equal(t, sequence.Running, state())
}

func TestStatsReportsCounters(t *testing.T) {
	core, _, _ := newCore(t, nil)
	_, err := core.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = core.Runner.Run(ctx) }()

	require.NoError(t, core.Runner.SwitchTo(ctx, mode.SlowDrift))
	core.Eng.SetParam(render.ParamBrightness, 0.25)

	st, err := core.Runner.Stats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, st["chains_started"], uint64(1))
	assert.Equal(t, 0.25, st["brightness"])
	assert.Equal(t, map[string]int{}, st["driver_errors"])
	assert.Equal(t, "idle", st["autoplay"])
	assert.Greater(t, st["listeners"], 0)
}
