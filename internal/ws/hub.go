// Package ws is the relay: it fans actor and ball frames out to the other
// members of a room. Delivery is best-effort; a member whose send buffer is
// full misses the frame.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/protocol"
)

const (
	DefaultSendBuffer = 64
	DefaultReadLimit  = 8192
)

var ErrHubClosed = errors.New("ws: hub closed")

// Bridge carries relayed frames to other relay instances.
type Bridge interface {
	Publish(ctx context.Context, room, sender string, frame []byte) error
}

type Options struct {
	SendBuffer  int
	ReadLimit   int64
	CheckOrigin func(r *http.Request) bool
	Logger      *zap.Logger
}

// Hub maintains the rooms and their connected actors.
type Hub struct {
	rooms      map[string]map[string]*Client // room -> actor -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	bridge   Bridge
	upgrader websocket.Upgrader
	opts     Options
	log      *zap.Logger
}

func NewHub(opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultReadLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	check := opts.CheckOrigin
	if check == nil {
		check = func(*http.Request) bool { return true }
	}
	return &Hub{
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     check,
		},
		opts: opts,
		log:  opts.Logger.Named("ws"),
	}
}

// SetBridge attaches cross-instance fan-out. Call it before Run.
func (h *Hub) SetBridge(b Bridge) { h.bridge = b }

// Run processes joins and leaves until ctx is done, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.join(c)
		case c := <-h.unregister:
			h.leave(c)
		case <-ctx.Done():
			h.mu.Lock()
			for room, members := range h.rooms {
				for _, c := range members {
					close(c.send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	members, ok := h.rooms[c.room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[c.room] = members
	}
	if old, exists := members[c.actor]; exists && old != c {
		_ = old.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "replaced by new connection"),
			deadline(writeWait))
		close(old.send)
		h.log.Info("connection replaced", zap.String("room", c.room), zap.String("actor", c.actor))
	}
	members[c.actor] = c
	count := len(members)
	h.mu.Unlock()

	h.log.Info("joined", zap.String("room", c.room), zap.String("actor", c.actor), zap.Int("members", count))
	if frame, err := protocol.Stamp(protocol.Envelope{Type: protocol.TypePeerJoined, Data: peerData(c.name)}, c.actor); err == nil {
		h.Broadcast(c.room, c.actor, frame)
	}
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	members := h.rooms[c.room]
	current, ok := members[c.actor]
	if !ok || current != c {
		// already replaced; its channel was closed on replacement
		h.mu.Unlock()
		return
	}
	delete(members, c.actor)
	close(c.send)
	if len(members) == 0 {
		delete(h.rooms, c.room)
	}
	h.mu.Unlock()

	h.log.Info("left", zap.String("room", c.room), zap.String("actor", c.actor))
	if frame, err := protocol.Stamp(protocol.Envelope{Type: protocol.TypePeerLeft}, c.actor); err == nil {
		h.Broadcast(c.room, c.actor, frame)
	}
}

// Broadcast queues frame for every member of room except the actor named
// except. Full buffers drop the frame.
func (h *Hub) Broadcast(room, except string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for actor, c := range h.rooms[room] {
		if actor == except {
			continue
		}
		select {
		case c.send <- frame:
		default:
			h.log.Debug("send buffer full, dropping frame", zap.String("room", room), zap.String("actor", actor))
		}
	}
}

// Deliver hands a frame relayed by another instance to local members.
func (h *Hub) Deliver(room, sender string, frame []byte) {
	h.Broadcast(room, sender, frame)
}

// Members lists the actors connected to room, sorted.
func (h *Hub) Members(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.rooms[room]))
	for actor := range h.rooms[room] {
		out = append(out, actor)
	}
	sort.Strings(out)
	return out
}

// Stats counts what the hub holds right now.
type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st := Stats{Rooms: len(h.rooms)}
	for _, members := range h.rooms {
		st.Connections += len(members)
	}
	return st
}

// Serve upgrades the request and attaches the connection to room as actor.
// The caller must have authenticated the actor already.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, room, actor, name string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{
		hub:   h,
		conn:  conn,
		room:  room,
		actor: actor,
		name:  name,
		send:  make(chan []byte, h.opts.SendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}
	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) relay(c *Client, frame []byte) {
	h.Broadcast(c.room, c.actor, frame)
	if h.bridge == nil {
		return
	}
	if err := h.bridge.Publish(context.Background(), c.room, c.actor, frame); err != nil {
		h.log.Warn("bridge publish failed", zap.String("room", c.room), zap.Error(err))
	}
}

func peerData(name string) json.RawMessage {
	if name == "" {
		return nil
	}
	b, _ := json.Marshal(protocol.PeerData{Name: name})
	return b
}
