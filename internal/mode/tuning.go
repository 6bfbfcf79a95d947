package mode

import (
	"math"
	"time"
)

// Range is a closed interval on one axis, in viewport fractions.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Clamp(x float64) float64 { return math.Max(r.Min, math.Min(r.Max, x)) }

func (r Range) Outside(x float64) bool { return x < r.Min || x > r.Max }

type DriftTuning struct {
	Speed  float64 `yaml:"speed"` // fraction per frame
	Spin   float64 `yaml:"spin"`  // degrees per frame
	Bounds Range   `yaml:"bounds"`
}

type ParallaxTuning struct {
	MoveScale     float64 `yaml:"move_scale"`
	DepthBase     float64 `yaml:"depth_base"`
	DepthRange    float64 `yaml:"depth_range"`
	RotationScale float64 `yaml:"rotation_scale"`
	InvertX       bool    `yaml:"invert_x"`
	InvertY       bool    `yaml:"invert_y"`
}

type ShakeTuning struct {
	FrequencyHz float64       `yaml:"frequency_hz"`
	Amplitude   float64       `yaml:"amplitude"`
	Ramp        time.Duration `yaml:"ramp"`
	ClickDelay  time.Duration `yaml:"click_delay"`
	Bounds      Range         `yaml:"bounds"`
}

// MagnetTuning drives modes 5, 6 and 7. Radius is used by the local
// variant only; Bias, Exponent and MaxDistance by the global ones.
type MagnetTuning struct {
	Radius       float64 `yaml:"radius,omitempty"`
	Bias         float64 `yaml:"bias,omitempty"`
	Exponent     float64 `yaml:"exponent,omitempty"`
	MaxDistance  float64 `yaml:"max_distance,omitempty"`
	Strength     float64 `yaml:"strength"`
	Smoothing    float64 `yaml:"smoothing"`
	RotationGain float64 `yaml:"rotation_gain"` // degrees per unit offset
}

type BlastTuning struct {
	Radius  float64 `yaml:"radius"`
	Impulse float64 `yaml:"impulse"`
	Spring  float64 `yaml:"spring"`
	Damping float64 `yaml:"damping"`
}

type SpinTuning struct {
	Scale     float64 `yaml:"scale"`
	Cap       float64 `yaml:"cap"`       // degrees per second
	Damping   float64 `yaml:"damping"`   // per 1/60 s
	Threshold float64 `yaml:"threshold"` // degrees per second
}

type IdleTuning struct {
	Threshold time.Duration `yaml:"threshold"`
	Fade      time.Duration `yaml:"fade"`
	MaxBlur   float64       `yaml:"max_blur"`
}

// Tuning holds every controller constant.
type Tuning struct {
	Drift    DriftTuning    `yaml:"drift"`
	Parallax ParallaxTuning `yaml:"parallax"`
	Shake    ShakeTuning    `yaml:"shake"`
	Local    MagnetTuning   `yaml:"local_magnet"`
	Global   MagnetTuning   `yaml:"global_magnet"`
	Repel    MagnetTuning   `yaml:"repel"`
	Blast    BlastTuning    `yaml:"blast"`
	Spin     SpinTuning     `yaml:"spin"`
	Idle     IdleTuning     `yaml:"idle"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Drift: DriftTuning{Speed: 0.0008, Spin: 0.08, Bounds: Range{Min: 0.08, Max: 0.92}},
		Parallax: ParallaxTuning{
			MoveScale:     0.6,
			DepthBase:     0.3,
			DepthRange:    0.7,
			RotationScale: 40,
		},
		Shake: ShakeTuning{
			FrequencyHz: 12,
			Amplitude:   0.03,
			Ramp:        20 * time.Second,
			ClickDelay:  5 * time.Second,
			Bounds:      Range{Min: 0.06, Max: 0.94},
		},
		Local:  MagnetTuning{Radius: 0.45, Strength: 0.35, Smoothing: 0.08, RotationGain: 90},
		Global: MagnetTuning{Bias: 0.2, Exponent: 1.6, MaxDistance: math.Sqrt2, Strength: 0.25, Smoothing: 0.08, RotationGain: 90},
		Repel:  MagnetTuning{Bias: 0.15, Exponent: 2, MaxDistance: math.Sqrt2, Strength: 0.18, Smoothing: 0.08, RotationGain: 90},
		Blast:  BlastTuning{Radius: 0.5, Impulse: 0.05, Spring: 0.06, Damping: 0.88},
		Spin:   SpinTuning{Scale: 0.002, Cap: 720, Damping: 0.96, Threshold: 1},
		Idle:   IdleTuning{Threshold: 180 * time.Second, Fade: 20 * time.Second, MaxBlur: 6},
	}
}
