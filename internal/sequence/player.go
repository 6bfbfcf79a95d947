package sequence

import (
	"errors"
	"math"
)

var ErrEmptyProgram = errors.New("program has no clips")

func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Load replaces the program and rewinds to Idle.
func (p *Player) Load(prog Program) error {
	if len(prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	for _, c := range prog.Clips {
		if c.DurationS <= 0 {
			return errors.New("clip duration must be positive")
		}
	}
	p.prog = prog
	p.nowS = 0
	p.idx = 0
	p.State = Idle
	return nil
}

// Start switches to the current clip's mode and begins playback.
func (p *Player) Start() {
	if p.State == Running || len(p.prog.Clips) == 0 {
		return
	}
	p.State = Running
	p.enter()
}

func (p *Player) Pause() { p.State = Paused }

func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop rewinds to the first clip without touching the active mode.
func (p *Player) Stop() {
	p.State = Idle
	p.nowS = 0
	p.idx = 0
}

// Current is the playing clip index and the time into it.
func (p *Player) Current() (int, float64) {
	_, local := p.clipAndLocalT()
	return p.idx, local
}

// Seek jumps to program time t, clamped into [0, total).
func (p *Player) Seek(t float64) {
	if len(p.prog.Clips) == 0 {
		return
	}
	t = math.Max(0, t)
	if total := p.totalDuration(); t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS {
			p.idx = i
			break
		}
		acc += c.DurationS
	}
	p.nowS = t
	p.enter()
}

// Tick advances playback by dt seconds. Clip boundaries call SetMode;
// envelopes of the active clip call SetParam.
func (p *Player) Tick(dt float64) {
	if p.State != Running || len(p.prog.Clips) == 0 || dt <= 0 {
		return
	}
	p.nowS += dt

	clip, localT := p.clipAndLocalT()
	for localT >= clip.DurationS {
		if !p.advance() {
			return
		}
		clip, localT = p.clipAndLocalT()
	}
	if p.hooks.SetParam != nil {
		for name, env := range clip.Params {
			p.hooks.SetParam(name, env.Eval(localT))
		}
	}
}

func (p *Player) enter() {
	if p.hooks.SetMode != nil {
		p.hooks.SetMode(p.prog.Clips[p.idx].Mode)
	}
}

func (p *Player) clipAndLocalT() (Clip, float64) {
	if len(p.prog.Clips) == 0 {
		return Clip{}, 0
	}
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Clips[i].DurationS
	}
	return p.prog.Clips[p.idx], p.nowS - acc
}

func (p *Player) totalDuration() float64 {
	total := 0.0
	for _, c := range p.prog.Clips {
		total += c.DurationS
	}
	return total
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni < len(p.prog.Clips) {
		return ni
	}
	if p.prog.Loop {
		return 0
	}
	return -1
}

// advance moves to the next clip. At the end of a looping program the
// timeline wraps. It reports false when playback ended.
func (p *Player) advance() bool {
	next := p.nextIndex()
	if next == -1 {
		p.State = Idle
		if p.hooks.Done != nil {
			p.hooks.Done()
		}
		return false
	}
	if next == 0 {
		p.nowS -= p.totalDuration()
	}
	p.idx = next
	p.enter()
	return true
}
