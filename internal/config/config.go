package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-shapefield/internal/mode"
)

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Shape struct {
	ID       string  `yaml:"id"`
	Template string  `yaml:"template"`
	Extent   float64 `yaml:"extent"` // fraction of the short viewport side
}

type PowerCfg struct {
	LimitAmps float64 `yaml:"limit_amps"`
	WhiteCap  float64 `yaml:"white_cap"`
}

type Dim struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, empty picks the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
}

type LED struct {
	Dim           Dim      `yaml:"dim"`
	XFlipEveryRow bool     `yaml:"x_flip_every_row"`
	Brightness    float64  `yaml:"brightness"`
	Power         PowerCfg `yaml:"power"`
	SPI           SPI      `yaml:"spi,omitempty"`
}

type Clip struct {
	Mode      int     `yaml:"mode"`
	DurationS float64 `yaml:"duration_s"`
}

type Autoplay struct {
	Enabled bool   `yaml:"enabled"`
	Loop    bool   `yaml:"loop"`
	Clips   []Clip `yaml:"clips"`
}

type Config struct {
	FPS       int    `yaml:"fps"`
	Frontend  string `yaml:"frontend"` // "window" | "term" | "led" | "headless"
	Addr      string `yaml:"addr"`
	StatePath string `yaml:"state_path"`
	Seed      int64  `yaml:"seed"` // 0 seeds from the clock

	Viewport Viewport `yaml:"viewport"`
	Shapes   []Shape  `yaml:"shapes"`
	LED      LED      `yaml:"led"`
	Autoplay Autoplay `yaml:"autoplay"`

	Tuning mode.Tuning `yaml:"tuning"`
}

func Default() *Config {
	return &Config{
		FPS:       60,
		Frontend:  "window",
		Addr:      ":8080",
		StatePath: "shapefield-state.yaml",
		Viewport:  Viewport{Width: 960, Height: 600},
		Shapes: []Shape{
			{ID: "shape-a", Template: "arc", Extent: 0.34},
			{ID: "shape-b", Template: "blob", Extent: 0.30},
			{ID: "shape-c", Template: "star", Extent: 0.26},
		},
		LED: LED{
			Dim:           Dim{X: 16, Y: 16},
			XFlipEveryRow: true,
			Brightness:    0.6,
			Power:         PowerCfg{LimitAmps: 3, WhiteCap: 2.2},
			SPI:           SPI{SpeedHz: 2400000},
		},
		Autoplay: Autoplay{
			Loop: true,
			Clips: []Clip{
				{Mode: 2, DurationS: 30},
				{Mode: 3, DurationS: 30},
				{Mode: 9, DurationS: 30},
			},
		},
		Tuning: mode.DefaultTuning(),
	}
}

// Load reads path over the defaults, so a partial file only overrides what
// it names.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
