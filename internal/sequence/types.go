package sequence

// Keyframe is a value at time T (seconds into the clip). Ease shapes the
// segment that starts here.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a sorted list of keyframes.
type Envelope struct {
	Keys []Keyframe `yaml:"keys" json:"keys"`
}

// Clip holds one mode for a fixed time. Params automate engine parameters
// (for example "brightness") while the clip plays.
type Clip struct {
	Name      string              `yaml:"name,omitempty" json:"name,omitempty"`
	Mode      int                 `yaml:"mode" json:"mode"`
	DurationS float64             `yaml:"duration_s" json:"duration_s"`
	Params    map[string]Envelope `yaml:"params,omitempty" json:"params,omitempty"`
}

// Program is an autoplay playlist.
type Program struct {
	Loop  bool   `yaml:"loop" json:"loop"`
	Clips []Clip `yaml:"clips" json:"clips"`
}

type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks connect the player to whoever owns the modes. They are called on
// the goroutine that calls Tick.
type Hooks struct {
	SetMode  func(mode int)
	SetParam func(name string, v float64)
	// Done runs once when a non-looping program plays out.
	Done func()
}

// Player walks a Program in time.
type Player struct {
	State PlayerState

	prog Program
	nowS float64 // position within program
	idx  int     // current clip index

	hooks Hooks
}
