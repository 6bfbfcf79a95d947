package main

import (
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coreman2200/funtimes-shapefield/internal/ws"
)

// sender is what the TUI needs from the connection.
type sender interface {
	SwitchTo(id int) error
	Click(x, y float64) error
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func dial(addr string) (*client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/control"}
	d := websocket.Dialer{HandshakeTimeout: 3 * time.Second}
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return &client{conn: conn}, nil
}

func (c *client) send(m ws.Control) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(m)
}

func (c *client) SwitchTo(id int) error { return c.send(ws.Control{Mode: &id}) }

func (c *client) Click(x, y float64) error {
	return c.send(ws.Control{Click: &ws.Point{X: x, Y: y}})
}

// Next blocks for the next status push.
func (c *client) Next() (ws.Status, error) {
	var st ws.Status
	err := c.conn.ReadJSON(&st)
	return st, err
}

func (c *client) Close() error { return c.conn.Close() }
