package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsesLargerBox(t *testing.T) {
	v := Viewport{ClientW: 800, ClientH: 500, InnerW: 1000, InnerH: 400}
	fx, fy := v.Normalize(500, 250)
	assert.InDelta(t, 0.5, fx, 1e-9)
	assert.InDelta(t, 0.5, fy, 1e-9)

	// Outside the viewport is passed through, not clamped.
	fx, fy = v.Normalize(-100, 1000)
	assert.InDelta(t, -0.1, fx, 1e-9)
	assert.InDelta(t, 2.0, fy, 1e-9)
}

func TestZoneFollowsLongerAxis(t *testing.T) {
	land := Square(1200, 600)
	assert.Equal(t, 0, land.Zone(0.1, 0.9))
	assert.Equal(t, 1, land.Zone(0.5, 0.1))
	assert.Equal(t, 2, land.Zone(0.9, 0.5))
	assert.Equal(t, 2, land.Zone(1.4, 0.5))
	assert.Equal(t, 0, land.Zone(-0.2, 0.5))

	port := Square(400, 900)
	assert.Equal(t, 0, port.Zone(0.9, 0.1))
	assert.Equal(t, 2, port.Zone(0.1, 0.95))
}

func TestBoundsGrowWithRotation(t *testing.T) {
	v := Square(1000, 500)
	flat := v.Bounds(0.5, 0.5, 0.2, 1, 0)
	assert.InDelta(t, 450, flat.MinX, 1e-9)
	assert.InDelta(t, 550, flat.MaxX, 1e-9)
	assert.True(t, flat.Contains(500, 250))
	assert.False(t, flat.Contains(560, 250))

	tilted := v.Bounds(0.5, 0.5, 0.2, 1, 45)
	assert.Greater(t, tilted.MaxX-tilted.MinX, flat.MaxX-flat.MinX)
}

func TestPanelSerpentineIndex(t *testing.T) {
	p := Panel{Dim: Dim{X: 4, Y: 2}, Order: Serpentine{XFlipEveryRow: true}}
	assert.Equal(t, 8, p.Count())
	assert.Equal(t, 0, p.Index(0, 0))
	assert.Equal(t, 3, p.Index(3, 0))
	assert.Equal(t, 7, p.Index(0, 1))
	assert.Equal(t, 4, p.Index(3, 1))
}
