// Command shapeseq dry-runs the autoplay playlist from a config file and
// prints every mode switch and parameter change with its program time.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-shapefield/internal/app"
	"github.com/coreman2200/funtimes-shapefield/internal/config"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/sequence"
)

func main() {
	var (
		configPath = flag.String("config", "shapefield.yaml", "path to config yaml")
		fps        = flag.Int("fps", 60, "simulation frames per second")
		maxS       = flag.Float64("max", 600, "stop after this many simulated seconds")
		realtime   = flag.Bool("realtime", false, "pace the simulation with the wall clock")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("read config")
	}
	if *fps <= 0 {
		*fps = 60
	}

	n := run(app.Program(cfg.Autoplay), *fps, *maxS, *realtime, log.Logger)
	log.Info().Int("switches", n).Msg("done")
}

// run plays prog until it ends or maxS passes and returns how many mode
// switches happened.
func run(prog sequence.Program, fps int, maxS float64, realtime bool, lg zerolog.Logger) int {
	var (
		t        float64
		switches int
		ended    bool
	)
	p := sequence.NewPlayer(sequence.Hooks{
		SetMode: func(id int) {
			switches++
			lg.Info().Float64("t", t).Stringer("mode", mode.Mode(id)).Msg("set mode")
		},
		SetParam: func(name string, v float64) {
			lg.Debug().Float64("t", t).Str("param", name).Float64("v", v).Msg("set param")
		},
		Done: func() { ended = true },
	})
	if err := p.Load(prog); err != nil {
		lg.Error().Err(err).Msg("load")
		return 0
	}
	p.Start()

	dt := time.Second / time.Duration(fps)
	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(dt)
		defer ticker.Stop()
	}
	for !ended && t < maxS {
		if ticker != nil {
			<-ticker.C
		}
		t += dt.Seconds()
		p.Tick(dt.Seconds())
	}
	if ended {
		lg.Info().Float64("t", t).Msg("program finished")
	}
	return switches
}
