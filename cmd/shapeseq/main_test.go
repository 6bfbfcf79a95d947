package main

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/funtimes-shapefield/internal/sequence"
)

func TestRunCountsSwitches(t *testing.T) {
	prog := sequence.Program{Clips: []sequence.Clip{
		{Mode: 2, DurationS: 1},
		{Mode: 5, DurationS: 1},
		{Mode: 9, DurationS: 1},
	}}
	assert.Equal(t, 3, run(prog, 60, 100, false, zerolog.New(io.Discard)))
}

func TestRunStopsLoopingProgramAtMax(t *testing.T) {
	prog := sequence.Program{Loop: true, Clips: []sequence.Clip{
		{Mode: 2, DurationS: 1},
		{Mode: 3, DurationS: 1},
	}}
	// 1 on start plus one per boundary in 5.5 s.
	assert.Equal(t, 6, run(prog, 60, 5.5, false, zerolog.New(io.Discard)))
}

func TestRunRejectsEmptyProgram(t *testing.T) {
	assert.Equal(t, 0, run(sequence.Program{}, 60, 10, false, zerolog.New(io.Discard)))
}
