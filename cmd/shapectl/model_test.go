package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-shapefield/internal/ws"
)

type fakeSender struct {
	switched []int
	clicks   int
	err      error
}

func (f *fakeSender) SwitchTo(id int) error {
	f.switched = append(f.switched, id)
	return f.err
}

func (f *fakeSender) Click(x, y float64) error {
	f.clicks++
	return f.err
}

func status(active int) statusMsg {
	st := ws.Status{Active: active}
	for i := 1; i <= 11; i++ {
		st.Modes = append(st.Modes, ws.ModeInfo{ID: i, Name: "m"})
	}
	return statusMsg(st)
}

func press(m tea.Model, k string) tea.Model {
	var msg tea.KeyMsg
	switch k {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m, _ = m.Update(msg)
	return m
}

func TestNavigateAndSelect(t *testing.T) {
	out := &fakeSender{}
	var m tea.Model = newModel("x", out, nil)
	m, _ = m.Update(status(1))

	m = press(m, "down")
	m = press(m, "down")
	m = press(m, "enter")
	assert.Equal(t, []int{3}, out.switched)

	m = press(m, "up")
	m = press(m, "up")
	m = press(m, "up")
	assert.Equal(t, 0, m.(model).cursor)
}

func TestQuickSelectKeys(t *testing.T) {
	out := &fakeSender{}
	var m tea.Model = newModel("x", out, nil)
	m, _ = m.Update(status(1))
	for _, k := range []string{"5", "0", "-"} {
		m = press(m, k)
	}
	assert.Equal(t, []int{5, 10, 11}, out.switched)
	assert.Equal(t, 10, m.(model).cursor)

	_, ok := quickSelect("x")
	assert.False(t, ok)
}

func TestStatusMarksActiveAndErrors(t *testing.T) {
	out := &fakeSender{err: errors.New("closed")}
	var m tea.Model = newModel("x", out, nil)
	m, _ = m.Update(status(4))
	assert.Equal(t, 4, m.(model).active)

	m = press(m, "c")
	assert.Equal(t, 1, out.clicks)
	assert.Contains(t, m.View(), "closed")

	m, _ = m.Update(errMsg{errors.New("eof")})
	assert.True(t, m.(model).gone)
}

func TestQuit(t *testing.T) {
	var m tea.Model = newModel("x", &fakeSender{}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestClientRoundTrip(t *testing.T) {
	got := make(chan ws.Control, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(ws.Status{Active: 2, Modes: []ws.ModeInfo{{ID: 2, Name: "slow-drift"}}})
		var c ws.Control
		if conn.ReadJSON(&c) == nil {
			got <- c
		}
	}))
	defer srv.Close()

	c, err := dial(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	defer c.Close()

	st, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Active)

	require.NoError(t, c.SwitchTo(7))
	select {
	case ctl := <-got:
		require.NotNil(t, ctl.Mode)
		assert.Equal(t, 7, *ctl.Mode)
	case <-time.After(2 * time.Second):
		t.Fatal("no control message")
	}
}

var upgrader = websocket.Upgrader{}
