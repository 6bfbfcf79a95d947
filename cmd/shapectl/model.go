package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coreman2200/funtimes-shapefield/internal/ws"
)

var (
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	active = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	bad    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	frame  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

type statusMsg ws.Status

type errMsg struct{ err error }

type model struct {
	out    sender
	next   func() (ws.Status, error)
	addr   string
	modes  []ws.ModeInfo
	active int
	cursor int
	err    string
	gone   bool
}

func newModel(addr string, out sender, next func() (ws.Status, error)) model {
	return model{addr: addr, out: out, next: next}
}

func (m model) Init() tea.Cmd { return m.listen() }

// listen waits for one status push.
func (m model) listen() tea.Cmd {
	if m.next == nil {
		return nil
	}
	return func() tea.Msg {
		st, err := m.next()
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(st)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		if len(msg.Modes) > 0 {
			m.modes = msg.Modes
		}
		m.active = msg.Active
		m.err = msg.Error
		if m.cursor >= len(m.modes) {
			m.cursor = 0
		}
		return m, m.listen()

	case errMsg:
		m.err = msg.err.Error()
		m.gone = true
		return m, nil

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < len(m.modes) {
			m.sendErr(m.out.SwitchTo(m.modes[m.cursor].ID))
		}
	case "c":
		m.sendErr(m.out.Click(0.5, 0.5))
	default:
		if id, ok := quickSelect(k); ok {
			m.cursor = id - 1
			m.sendErr(m.out.SwitchTo(id))
		}
	}
	return m, nil
}

func (m *model) sendErr(err error) {
	if err != nil {
		m.err = err.Error()
	}
}

// quickSelect maps 1-9, 0 and - to mode ids 1 through 11.
func quickSelect(k string) (int, bool) {
	if len(k) != 1 {
		return 0, false
	}
	switch c := k[0]; {
	case c >= '1' && c <= '9':
		return int(c - '0'), true
	case c == '0':
		return 10, true
	case c == '-':
		return 11, true
	}
	return 0, false
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(title.Render("shapefield"))
	b.WriteString(dim.Render("  " + m.addr))
	b.WriteString("\n\n")

	if len(m.modes) == 0 && !m.gone {
		b.WriteString(dim.Render("waiting for engine..."))
	}
	for i, mi := range m.modes {
		pointer := "  "
		if i == m.cursor {
			pointer = cursor.Render("> ")
		}
		line := fmt.Sprintf("%2d  %s", mi.ID, mi.Name)
		if mi.ID == m.active {
			line = active.Render(line + "  ●")
		}
		b.WriteString(pointer + line + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + bad.Render(m.err))
	}
	b.WriteString("\n" + dim.Render("↑/↓ enter select · 1-9 0 - quick select · c click · q quit"))
	return frame.Render(b.String())
}
