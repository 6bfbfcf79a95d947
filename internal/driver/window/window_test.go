package window

import (
	"context"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
)

type recorder struct{ events []host.Event }

func (r *recorder) Post(ev host.Event) bool {
	r.events = append(r.events, ev)
	return true
}

func (r *recorder) Key(context.Context, rune) bool { return false }

func TestKeyRunes(t *testing.T) {
	for k, want := range map[ebiten.Key]rune{
		ebiten.KeyDigit1:  '1',
		ebiten.KeyDigit9:  '9',
		ebiten.KeyDigit0:  '0',
		ebiten.KeyNumpad5: '5',
		ebiten.KeyMinus:   '-',
		ebiten.KeyR:       'r',
		ebiten.KeyP:       'p',
		ebiten.KeyEscape:  0x1b,
	} {
		got, ok := keyRune(k)
		assert.True(t, ok, k.String())
		assert.Equal(t, want, got, k.String())
	}
	_, ok := keyRune(ebiten.KeyF1)
	assert.False(t, ok)
}

func TestLayoutReportsResizeOnce(t *testing.T) {
	d := New(800, 600)
	rec := &recorder{}
	d.in = rec

	w, h := d.Layout(800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Empty(t, rec.events)

	d.Layout(1024, 768)
	d.Layout(1024, 768)
	require.Len(t, rec.events, 1)
	assert.Equal(t, host.Resize, rec.events[0].Kind)
	assert.Equal(t, 1024.0, rec.events[0].Viewport.Width())
}

func TestWriteKeepsLatestFrame(t *testing.T) {
	d := New(100, 100)
	assert.Equal(t, "window", d.Name())
	require.NoError(t, d.Write(render.Frame{ID: 1}))
	require.NoError(t, d.Write(render.Frame{ID: 2}))
	assert.Equal(t, uint64(2), d.last.ID)
	require.NoError(t, d.Close())
	assert.True(t, d.isClosed())
}

func TestTouchDragStreamsMoves(t *testing.T) {
	d := New(100, 100)
	rec := &recorder{}
	d.in = rec

	d.trackTouches([]host.Point{{X: 10, Y: 10}})
	d.trackTouches([]host.Point{{X: 10, Y: 10}})
	d.trackTouches([]host.Point{{X: 14, Y: 12}})
	d.trackTouches([]host.Point{{X: 20, Y: 15}})
	require.Len(t, rec.events, 3)
	for _, ev := range rec.events {
		assert.Equal(t, host.TouchMove, ev.Kind)
	}
	assert.Equal(t, []host.Point{{X: 20, Y: 15}}, rec.events[2].Touches)

	// Lifting and landing at the same spot is a new sample.
	d.trackTouches(nil)
	d.trackTouches([]host.Point{{X: 20, Y: 15}})
	assert.Len(t, rec.events, 4)
}
