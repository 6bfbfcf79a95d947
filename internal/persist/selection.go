package persist

import (
	"strconv"
	"strings"
)

// DefaultKey is the key the last selected mode is stored under.
const DefaultKey = "shapes-mode"

// Selection is the remembered mode id. It is advisory: anything missing or
// unreadable loads as Default.
type Selection struct {
	Store   Store
	Key     string
	Default int
	Valid   func(int) bool
}

// Load returns the stored id, or Default. The error reports why the default
// was used and is informational only.
func (s Selection) Load() (int, error) {
	if s.Store == nil {
		return s.Default, nil
	}
	raw, ok, err := s.Store.Get(s.key())
	if err != nil || !ok {
		return s.Default, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return s.Default, err
	}
	if s.Valid != nil && !s.Valid(n) {
		return s.Default, nil
	}
	return n, nil
}

// Save stores id as a decimal string.
func (s Selection) Save(id int) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Set(s.key(), strconv.Itoa(id))
}

func (s Selection) key() string {
	if s.Key == "" {
		return DefaultKey
	}
	return s.Key
}
