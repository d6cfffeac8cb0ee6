package logchan

import (
	"context"

	"github.com/coder/websocket"
)

// WSChannel adapts a websocket connection to Channel. Frames are sent as text messages.
type WSChannel struct {
	conn *websocket.Conn
}

// NewWSChannel wraps conn.
func NewWSChannel(conn *websocket.Conn) *WSChannel { return &WSChannel{conn: conn} }

func (c *WSChannel) WriteText(ctx context.Context, msg string) error {
	return c.conn.Write(ctx, websocket.MessageText, []byte(msg))
}

// Drain reads and discards client frames until the connection fails or ctx ends.
// Returning marks the session as gone.
func (c *WSChannel) Drain(ctx context.Context) error {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return err
		}
	}
}
