package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fps: 30
tuning:
  parallax:
    invert_x: true
  shake:
    ramp: 10s
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, c.FPS)
	assert.Equal(t, ":8080", c.Addr)
	assert.True(t, c.Tuning.Parallax.InvertX)
	assert.Equal(t, 0.6, c.Tuning.Parallax.MoveScale)
	assert.Equal(t, 10*time.Second, c.Tuning.Shake.Ramp)
	assert.Equal(t, 5*time.Second, c.Tuning.Shake.ClickDelay)
	assert.Len(t, c.Shapes, 3)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Frontend = "term"
	c.Autoplay.Enabled = true
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, os.IsNotExist(err))
}
