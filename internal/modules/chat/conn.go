package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn serializes writes to one websocket connection. gorilla allows a
// single writer at a time, and here the hub, the ping loop and the read loop
// all write, so every outbound frame goes through the mutex.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}

func (c *wsConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *wsConn) SetPongHandler(h func(string) error) {
	c.conn.SetPongHandler(h)
}
