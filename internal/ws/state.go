package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-shapefield/internal/diagnostics"
	"github.com/coreman2200/funtimes-shapefield/internal/host"
	"github.com/coreman2200/funtimes-shapefield/internal/mode"
	"github.com/coreman2200/funtimes-shapefield/internal/render"
	"github.com/coreman2200/funtimes-shapefield/internal/surface"
)

// Controller is the engine side the control socket drives.
type Controller interface {
	SwitchTo(ctx context.Context, m mode.Mode) error
	PostFraction(kind host.EventKind, fx, fy float64) bool
	Stats(ctx context.Context) (map[string]any, error)
}

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// State serves the sockets. It is also a render driver (frame stream), a
// mode indicator (status pushes) and a diagnostics sink.
type State struct {
	ctl Controller
	fps int

	mu          sync.RWMutex
	active      mode.Mode
	frameID     uint64
	shapes      int
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	ctlClients  map[*client]bool

	upgrader websocket.Upgrader
}

func NewState(ctl Controller, fps int) *State {
	return &State{
		ctl:         ctl,
		fps:         fps,
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		ctlClients:  map[*client]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Routes mounts the handlers on mux.
func (s *State) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
}

// ---- render.Driver ----

func (s *State) Name() string { return "ws" }

type frameMsg struct {
	T       float64             `json:"t"`
	FrameID uint64              `json:"frame_id"`
	Mode    int                 `json:"mode"`
	Opacity float64             `json:"opacity"`
	Blur    float64             `json:"blur"`
	Shapes  []surface.ShapeView `json:"shapes"`
}

func (s *State) Write(f render.Frame) error {
	s.mu.Lock()
	s.frameID = f.ID
	s.shapes = len(f.Snap.Shapes)
	n := len(s.clients)
	s.mu.Unlock()
	if n == 0 {
		return nil
	}
	b, err := json.Marshal(frameMsg{
		T: f.T, FrameID: f.ID, Mode: f.Snap.Mode,
		Opacity: f.Snap.Opacity, Blur: f.Snap.Blur, Shapes: f.Snap.Shapes,
	})
	if err != nil {
		return err
	}
	s.broadcast(s.clients, b)
	return nil
}

func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range []map[*client]bool{s.clients, s.diagClients, s.ctlClients} {
		for c := range set {
			c.conn.Close()
			delete(set, c)
		}
	}
	return nil
}

// ---- app.Indicator ----

func (s *State) SetActive(m mode.Mode) {
	s.mu.Lock()
	s.active = m
	s.mu.Unlock()
	s.broadcast(s.ctlClients, s.status())
}

// ---- diagnostics ----

// PushDiag sends d to every /diag client.
func (s *State) PushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.broadcast(s.diagClients, b)
}

// ---- handlers ----

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.accept(w, r, s.clients)
	if err != nil {
		return
	}
	go s.drain(c, s.clients)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.accept(w, r, s.diagClients)
	if err != nil {
		return
	}
	go s.drain(c, s.diagClients)
}

// Point is a viewport position in fractions.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Control is one message a /control client sends. Any combination of
// fields may be set.
type Control struct {
	Mode    *int   `json:"mode,omitempty"`
	Pointer *Point `json:"pointer,omitempty"`
	Click   *Point `json:"click,omitempty"`
}

// Status is pushed to /control clients on connect, on every mode change
// and in reply to a rejected command.
type Status struct {
	Active int        `json:"active"`
	Modes  []ModeInfo `json:"modes"`
	Error  string     `json:"error,omitempty"`
}

type ModeInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.accept(w, r, s.ctlClients)
	if err != nil {
		return
	}
	defer s.remove(c, s.ctlClients)
	_ = c.write(s.status())

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("bad control message")
			continue
		}
		if err := s.applyControl(r.Context(), msg); err != nil {
			b, _ := json.Marshal(s.statusWith(err.Error()))
			_ = c.write(b)
		}
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"mode":     int(s.active),
		"shapes":   s.shapes,
		"fps":      s.fps,
	}
	s.mu.RUnlock()
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()
	if stats, err := s.ctl.Stats(ctx); err == nil {
		for k, v := range stats {
			resp[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) applyControl(ctx context.Context, msg Control) error {
	if msg.Pointer != nil {
		s.ctl.PostFraction(host.PointerMove, msg.Pointer.X, msg.Pointer.Y)
	}
	if msg.Click != nil {
		s.ctl.PostFraction(host.Click, msg.Click.X, msg.Click.Y)
	}
	if msg.Mode != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return s.ctl.SwitchTo(ctx, mode.Mode(*msg.Mode))
	}
	return nil
}

func (s *State) status() []byte {
	b, _ := json.Marshal(s.statusWith(""))
	return b
}

func (s *State) statusWith(errText string) Status {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	msg := Status{Active: int(active), Error: errText}
	for _, m := range mode.All() {
		msg.Modes = append(msg.Modes, ModeInfo{ID: int(m), Name: m.String()})
	}
	return msg
}

func (s *State) accept(w http.ResponseWriter, r *http.Request, set map[*client]bool) (*client, error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("upgrade failed")
		return nil, err
	}
	c := &client{conn: conn}
	s.mu.Lock()
	set[c] = true
	s.mu.Unlock()
	return c, nil
}

// drain reads until the peer goes away so close frames are handled.
func (s *State) drain(c *client, set map[*client]bool) {
	defer s.remove(c, set)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *State) remove(c *client, set map[*client]bool) {
	s.mu.Lock()
	delete(set, c)
	s.mu.Unlock()
	c.conn.Close()
}

func (s *State) broadcast(set map[*client]bool, b []byte) {
	s.mu.RLock()
	targets := make([]*client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	s.mu.RUnlock()
	for _, c := range targets {
		if err := c.write(b); err != nil {
			log.Debug().Err(err).Msg("ws write")
		}
	}
}
