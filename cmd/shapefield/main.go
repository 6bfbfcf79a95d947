package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-shapefield/internal/app"
	"github.com/coreman2200/funtimes-shapefield/internal/config"
	diag "github.com/coreman2200/funtimes-shapefield/internal/diagnostics"
	"github.com/coreman2200/funtimes-shapefield/internal/driver/led"
	"github.com/coreman2200/funtimes-shapefield/internal/driver/term"
	"github.com/coreman2200/funtimes-shapefield/internal/driver/window"
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/ws"
)

func main() {
	// ---- Flags (explicitly set flags override config.yaml) ----
	var (
		configPath = flag.String("config", "shapefield.yaml", "path to config yaml")
		frontend   = flag.String("frontend", "", "frontend: window | term | led | headless")
		addr       = flag.String("addr", "", "HTTP listen address, \"-\" disables the server")
		fps        = flag.Int("fps", 0, "target frames per second")
		seed       = flag.Int64("seed", 0, "random seed, 0 seeds from the clock")
		logLevel   = flag.String("log-level", "info", "trace | debug | info | warn | error")
		logFile    = flag.String("log-file", "", "write logs here instead of stdout (term defaults to shapefield.log)")
		snapshot   = flag.String("snapshot", "", "render one frame to this PNG and exit")
		startMode  = flag.String("mode", "", "start in this mode (id or name) instead of the remembered one")
		ledTest    = flag.String("led-test", "", "with -frontend led, show a wiring pattern first: index_sweep | rgb_channels | row_sweep")
	)
	flag.Parse()

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "frontend":
			cfg.Frontend = *frontend
		case "addr":
			cfg.Addr = *addr
		case "fps":
			cfg.FPS = *fps
		case "seed":
			cfg.Seed = *seed
		}
	})
	if *snapshot != "" {
		cfg.Frontend = "headless"
	}

	// ---- Logging ----
	out := io.Writer(os.Stdout)
	path := *logFile
	if path == "" && cfg.Frontend == "term" {
		path = "shapefield.log"
	}
	if path != "" {
		f, ferr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr == nil {
			defer f.Close()
			out = f
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: out != os.Stdout})
	if lvl, lerr := zerolog.ParseLevel(*logLevel); lerr == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
	}

	// ---- Frontend driver ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		drivers []render.Driver
		win     *window.Driver
		tty     *term.Driver
	)
	switch cfg.Frontend {
	case "window":
		win = window.New(int(cfg.Viewport.Width), int(cfg.Viewport.Height))
		drivers = append(drivers, win)
	case "term":
		tty, err = term.New(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("terminal init failed")
		}
		drivers = append(drivers, tty)
	case "led":
		d, lerr := led.Open(cfg.LED)
		if lerr != nil {
			log.Fatal().Err(lerr).Msg("LED init failed")
		}
		if *ledTest != "" {
			runPattern(ctx, d, *ledTest)
		}
		drivers = append(drivers, d)
	case "headless":
	default:
		log.Warn().Str("frontend", cfg.Frontend).Msg("unknown frontend; running headless")
		cfg.Frontend = "headless"
	}

	// ---- Engine ----
	var state *ws.State
	sink := diag.Sink(func(d diag.Diagnostic) {
		log.Debug().Str("code", d.Code).Str("severity", string(d.Severity)).Msg(d.Summary)
		if state != nil {
			state.PushDiag(d)
		}
	})
	opts := app.CoreOptions{Drivers: drivers, Diag: sink, Log: log.Logger}
	var clk *host.ManualClock
	if *snapshot != "" {
		clk = &host.ManualClock{}
		opts.Clock = clk
	}
	core, err := initEngine(cfg, opts)
	if errors.Is(err, app.ErrInactive) {
		log.Warn().Err(err).Msg("no shapes configured; nothing to animate")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}
	defer core.Eng.Close()

	state = ws.NewState(core.Runner, cfg.FPS)
	core.Eng.AddDriver(state)
	core.Mgr.AddIndicator(state)

	active, err := core.Start()
	if err != nil {
		_ = core.Eng.Close()
		log.Fatal().Err(err).Msg("engine start failed")
	}
	if *startMode != "" {
		m, perr := mode.Parse(*startMode)
		if perr == nil {
			perr = core.Mgr.SwitchTo(m)
		}
		if perr != nil {
			log.Warn().Err(perr).Str("mode", *startMode).Msg("ignoring -mode")
		} else {
			active = m
		}
	}
	log.Info().Stringer("mode", active).Str("frontend", cfg.Frontend).Strs("drivers", core.Eng.Drivers()).Msg("engine started")

	if *snapshot != "" {
		writeSnapshot(core, clk, *snapshot)
		return
	}

	// ---- HTTP routes ----
	var srv *http.Server
	if cfg.Addr != "" && cfg.Addr != "-" {
		mux := http.NewServeMux()
		state.Routes(mux)
		srv = &http.Server{
			Addr:         cfg.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("http server stopped")
			}
		}()
	}

	// ---- Run ----
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := core.Runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("runner stopped")
		}
	}()

	switch {
	case win != nil:
		// ebiten needs the main goroutine.
		if err := win.Run(runCtx, core.Runner); err != nil {
			log.Error().Err(err).Msg("window closed with error")
		}
	case tty != nil:
		if err := tty.Run(runCtx, core.Runner); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("terminal closed with error")
		}
	default:
		<-runCtx.Done()
	}

	// ---- Graceful shutdown ----
	log.Info().Msg("shutting down")
	cancel()
	<-done
	if srv != nil {
		_ = srv.Close()
	}
}

// initEngine builds the core. On failure the frontend drivers are closed
// here, since nothing else owns them yet; the terminal is restored before
// anything is logged to it.
func initEngine(cfg *config.Config, opts app.CoreOptions) (*app.Core, error) {
	core, err := app.InitCore(cfg, opts)
	if err != nil {
		for _, d := range opts.Drivers {
			if cerr := d.Close(); cerr != nil {
				log.Debug().Err(cerr).Str("driver", d.Name()).Msg("close after failed init")
			}
		}
		return nil, err
	}
	return core, nil
}

// writeSnapshot advances the engine a second's worth of frames and saves the
// result.
func writeSnapshot(core *app.Core, clk *host.ManualClock, path string) {
	host.StepN(core.Host, clk, 60)
	vp := core.Host.Viewport()
	f := core.Eng.Frame(vp)
	if err := render.SavePNG(path, f, int(vp.Width()), int(vp.Height())); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("snapshot failed")
	}
	log.Info().Str("path", path).Uint64("frame", f.ID).Msg("snapshot written")
	core.Mgr.Stop()
}

func runPattern(ctx context.Context, d *led.Driver, name string) {
	k, err := led.ParsePattern(name)
	if err != nil {
		log.Warn().Err(err).Msg("skipping LED test")
		return
	}
	log.Info().Str("pattern", string(k)).Str("driver", d.Name()).Msg("LED test starting")
	if err := d.RunPattern(ctx, k, 80*time.Millisecond); err != nil {
		log.Warn().Err(err).Msg("LED test stopped")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
