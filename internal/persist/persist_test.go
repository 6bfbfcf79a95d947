package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modeRange(n int) bool { return n >= 1 && n <= 11 }

func TestSelectionFallsBackToDefault(t *testing.T) {
	for _, raw := range []string{"", "0", "12", "-3", "seven", "4.5"} {
		st := NewMemStore()
		if raw != "" {
			require.NoError(t, st.Set(DefaultKey, raw))
		}
		sel := Selection{Store: st, Default: 1, Valid: modeRange}
		got, _ := sel.Load()
		assert.Equal(t, 1, got, "raw %q", raw)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	st := NewMemStore()
	sel := Selection{Store: st, Default: 1, Valid: modeRange}
	require.NoError(t, sel.Save(9))
	raw, ok, err := st.Get(DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "9", raw)

	got, err := sel.Load()
	require.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestSelectionStoreErrors(t *testing.T) {
	st := NewMemStore()
	st.Err = errors.New("quota exceeded")
	sel := Selection{Store: st, Default: 1}
	got, err := sel.Load()
	assert.Equal(t, 1, got)
	assert.Error(t, err)
	assert.Error(t, sel.Save(3))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "shapefield.yaml")
	fs := NewFileStore(path)

	_, ok, err := fs.Get("shapes-mode")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.Set("shapes-mode", "6"))
	require.NoError(t, fs.Set("other", "x"))
	v, ok, err := NewFileStore(path).Get("shapes-mode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "6", v)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{ not yaml"), 0644))
	fs := NewFileStore(path)

	sel := Selection{Store: fs, Default: 1, Valid: modeRange}
	got, err := sel.Load()
	assert.Equal(t, 1, got)
	assert.Error(t, err)

	require.NoError(t, sel.Save(4))
	got, err = sel.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}
