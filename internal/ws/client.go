package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Client is one actor's connection to a room.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	room  string
	actor string
	name  string
	send  chan []byte
}

func deadline(d time.Duration) time.Time { return time.Now().Add(d) }

// readPump relays frames from the connection until it fails.
func (c *Client) readPump() {
	log := c.hub.log.With(zap.String("room", c.room), zap.String("actor", c.actor))
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.opts.ReadLimit)
	c.conn.SetReadDeadline(deadline(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(deadline(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn("unexpected close", zap.Error(err))
			} else {
				log.Debug("read ended", zap.Error(err))
			}
			return
		}

		env, err := protocol.Decode(message)
		if err != nil {
			c.trySend(protocol.ErrorFrame("malformed frame"))
			continue
		}

		switch {
		case env.Type == protocol.TypePing:
			pong, _ := protocol.Encode(protocol.TypePong, nil)
			c.trySend(pong)
		case protocol.Relayed(env.Type):
			frame, err := protocol.Stamp(env, c.actor)
			if err != nil {
				log.Warn("stamp failed", zap.Error(err))
				continue
			}
			c.hub.relay(c, frame)
		default:
			c.trySend(protocol.ErrorFrame("unknown message type: " + env.Type))
		}
	}
}

// trySend queues a reply for this client only. Replies share the relay's
// drop-on-full rule.
func (c *Client) trySend(frame []byte) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.hub.rooms[c.room][c.actor] != c {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(deadline(writeWait))
			if !ok {
				// replaced or hub shut down
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Debug("write failed", zap.String("actor", c.actor), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(deadline(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
