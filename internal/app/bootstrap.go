package app

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-shapefield/internal/config"
	diag "github.com/coreman2200/funtimes-shapefield/internal/diagnostics"
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/layout"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/persist"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/sequence"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// Core is the wired engine: surface, host, manager, output and autoplay.
type Core struct {
	Root   *surface.Root
	Host   *host.Host
	Mgr    *Manager
	Eng    *render.Engine
	Seq    *sequence.Player
	Runner *Runner

	autoplay bool
}

type CoreOptions struct {
	Clock   host.Clock // nil uses the wall clock
	Store   persist.Store
	Drivers []render.Driver
	Diag    diag.Sink
	Log     zerolog.Logger
}

// BuildRoot creates the fixed shape set from config. Unknown templates
// fall back to blob.
func BuildRoot(shapes []config.Shape, log zerolog.Logger) *surface.Root {
	nodes := make([]*surface.Node, 0, len(shapes))
	for _, s := range shapes {
		t := surface.Template(s.Template)
		if !validTemplate(t) {
			log.Warn().Str("id", s.ID).Str("template", s.Template).Msg("unknown template; using blob")
			t = surface.Blob
		}
		extent := s.Extent
		if extent <= 0 {
			extent = 0.3
		}
		nodes = append(nodes, surface.NewNode(s.ID, t, extent))
	}
	return surface.NewRoot(nodes...)
}

func validTemplate(t surface.Template) bool {
	for _, v := range surface.Templates {
		if v == t {
			return true
		}
	}
	return false
}

// Program turns the autoplay section into a playlist.
func Program(a config.Autoplay) sequence.Program {
	p := sequence.Program{Loop: a.Loop}
	for _, c := range a.Clips {
		p.Clips = append(p.Clips, sequence.Clip{Name: mode.Mode(c.Mode).String(), Mode: c.Mode, DurationS: c.DurationS})
	}
	return p
}

func InitCore(cfg *config.Config, o CoreOptions) (*Core, error) {
	// 1) Surface and host
	root := BuildRoot(cfg.Shapes, o.Log)
	if !root.Active() {
		return nil, ErrInactive
	}
	vp := layout.Square(cfg.Viewport.Width, cfg.Viewport.Height)
	h := host.New(o.Clock, vp)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 2) Manager
	store := o.Store
	if store == nil {
		store = persist.NewFileStore(cfg.StatePath)
	}
	mgr := NewManager(ManagerOptions{
		Root:      root,
		Host:      h,
		Rand:      rand.New(rand.NewSource(seed)),
		Tuning:    cfg.Tuning,
		Selection: persist.Selection{Store: store, Key: persist.DefaultKey, Default: int(mode.Static)},
		Diag:      o.Diag,
		Log:       o.Log,
	})

	// 3) Output
	eng, err := render.NewEngine(root, o.Drivers...)
	if err != nil {
		return nil, err
	}

	// 4) Autoplay (hooks run on the runner goroutine)
	seq := sequence.NewPlayer(sequence.Hooks{
		SetMode: func(id int) {
			if err := mgr.SwitchTo(mode.Mode(id)); err != nil {
				o.Log.Warn().Err(err).Int("mode", id).Msg("autoplay switch failed")
			}
		},
		SetParam: eng.SetParam,
		Done: func() {
			o.Log.Info().Str("mode", mgr.Active().String()).Msg("autoplay finished")
			o.Diag.Push(diag.Diagnostic{Severity: diag.Info, Code: diag.AutoplayFinished,
				Summary: "autoplay program finished", Evidence: map[string]any{"mode": int(mgr.Active())}})
		},
	})
	autoplay := false
	if cfg.Autoplay.Enabled {
		if err := seq.Load(Program(cfg.Autoplay)); err != nil {
			o.Log.Warn().Err(err).Msg("autoplay disabled")
		} else {
			autoplay = true
		}
	}

	r := NewRunner(h, mgr, eng, seq, cfg.FPS, o.Log)
	r.Diag = o.Diag
	return &Core{Root: root, Host: h, Mgr: mgr, Eng: eng, Seq: seq, Runner: r, autoplay: autoplay}, nil
}

// Start activates the remembered mode, then autoplay if configured. Call it
// before Runner.Run or from the runner goroutine.
func (c *Core) Start() (mode.Mode, error) {
	m, err := c.Mgr.Start()
	if err != nil {
		return m, err
	}
	if c.autoplay {
		c.Seq.Start()
		m = c.Mgr.Active()
	}
	return m, nil
}
