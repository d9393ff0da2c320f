package websocket

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"cloudshelf/internal/logging"
)

// maxInboundBytes caps client frames; the push channel is one-way and
// inbound traffic is only read to detect the connection closing.
const maxInboundBytes = 512

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger zerolog.Logger
	UserID int64
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: logging.Component("websocket").With().Int64("user_id", userID).Logger(),
		UserID: userID,
	}
}

// ReadPump drains inbound frames until the peer goes away, then detaches the
// client from the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundBytes)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Msg("connection closed unexpectedly")
			}
			return
		}
	}
}

// WritePump relays hub events to the connection until the send channel is
// closed by the hub or a write fails.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.logger.Debug().Err(err).Msg("event write failed, dropping client")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
