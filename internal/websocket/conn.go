package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// The feed is one-way; peers only send control frames.
	maxMessageSize = 1024

	sendBufferSize = 32
)

// Conn wraps a gorilla connection.
type Conn struct {
	*websocket.Conn
}

// Attach registers an upgraded connection with the hub and starts its pumps.
func (h *Hub) Attach(ws *websocket.Conn) *Client {
	client := &Client{
		hub:  h,
		conn: &Conn{ws},
		send: make(chan []byte, sendBufferSize),
		addr: ws.RemoteAddr().String(),
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}

	go client.WritePump()
	go client.ReadPump()
	return client
}

// ReadPump drains the peer until it goes away. Inbound data messages are
// ignored.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error", err, map[string]interface{}{
					"remote_addr": c.addr,
				})
			}
			return
		}
	}
}

// WritePump forwards queued events and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error("Failed to write message", err, map[string]interface{}{
					"remote_addr": c.addr,
				})
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
