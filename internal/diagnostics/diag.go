package diagnostics

import "time"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes pushed by the engine.
const (
	ModeSwitch       = "MODE.SWITCH"
	ModeUnknown      = "MODE.UNKNOWN"
	TeardownPanic    = "MODE.TEARDOWN_PANIC"
	PersistFail      = "PERSIST.FAIL"
	EngineInactive   = "ENGINE.INACTIVE"
	DriverWriteFail  = "DRIVER.WRITE_FAIL"
	AutoplayFinished = "AUTOPLAY.DONE"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	At             time.Time      `json:"at"`
}

// Sink receives diagnostics. It must not block.
type Sink func(Diagnostic)

// Push stamps d and hands it to s. A nil sink drops it.
func (s Sink) Push(d Diagnostic) {
	if s == nil {
		return
	}
	if d.At.IsZero() {
		d.At = time.Now()
	}
	s(d)
}
