package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peter211231231231232131/basketbgallgame/internal/protocol"
)

type recordingBridge struct {
	mu     sync.Mutex
	frames []string
}

func (b *recordingBridge) Publish(_ context.Context, room, sender string, frame []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, room+"/"+sender)
	return nil
}

func (b *recordingBridge) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// startHub serves /{room}/{actor} straight into the hub.
func startHub(t *testing.T, opts Options, bridge Bridge) (*Hub, string) {
	t.Helper()
	hub := NewHub(opts)
	if bridge != nil {
		hub.SetBridge(bridge)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if err := hub.Serve(w, r, parts[0], parts[1], ""); err != nil {
			t.Logf("serve: %v", err)
		}
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, base, room, actor string, want int) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"/"+room+"/"+actor, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return len(hub.Members(room)) == want }, time.Second, 5*time.Millisecond)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) protocol.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	env, err := protocol.Decode(msg)
	require.NoError(t, err)
	return env
}

func TestRelayStampsSenderAndSkipsEcho(t *testing.T) {
	bridge := &recordingBridge{}
	hub, base := startHub(t, Options{}, bridge)

	alice := dial(t, hub, base, "r1", "alice", 1)
	bob := dial(t, hub, base, "r1", "bob", 2)

	joined := readEnvelope(t, alice)
	assert.Equal(t, protocol.TypePeerJoined, joined.Type)
	assert.Equal(t, "bob", joined.Sender)

	require.NoError(t, bob.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"actor_state","sender":"mallory","data":{"position":[1,0,2],"yaw":0.5}}`)))

	env := readEnvelope(t, alice)
	assert.Equal(t, protocol.TypeActorState, env.Type)
	assert.Equal(t, "bob", env.Sender)
	pose, err := protocol.DecodePayload[protocol.ActorStateData](env)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pose.Yaw)

	assert.Eventually(t, func() bool { return bridge.count() == 1 }, time.Second, 5*time.Millisecond)

	// bob gets nothing back for his own frame; a ping proves the queue is empty
	require.NoError(t, bob.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, protocol.TypePong, readEnvelope(t, bob).Type)
}

func TestRoomsAreIsolated(t *testing.T) {
	hub, base := startHub(t, Options{}, nil)
	a := dial(t, hub, base, "r1", "a", 1)
	b := dial(t, hub, base, "r2", "b", 1)

	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(`{"type":"score","data":{"home":2,"away":0}}`)))
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, protocol.TypePong, readEnvelope(t, a).Type)
}

func TestStatsCountsRoomsAndConnections(t *testing.T) {
	hub, base := startHub(t, Options{}, nil)
	assert.Equal(t, Stats{}, hub.Stats())

	dial(t, hub, base, "r1", "a", 1)
	dial(t, hub, base, "r1", "b", 2)
	c := dial(t, hub, base, "r2", "c", 1)
	assert.Equal(t, Stats{Rooms: 2, Connections: 3}, hub.Stats())

	c.Close()
	assert.Eventually(t, func() bool { return hub.Stats() == Stats{Rooms: 1, Connections: 2} }, time.Second, 5*time.Millisecond)
}

func TestUnknownTypeGetsErrorFrame(t *testing.T) {
	hub, base := startHub(t, Options{}, nil)
	a := dial(t, hub, base, "r1", "a", 1)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"type":"teleport"}`)))
	env := readEnvelope(t, a)
	assert.Equal(t, protocol.TypeError, env.Type)
	msg, err := protocol.DecodePayload[protocol.ErrorData](env)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "teleport")

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, protocol.TypeError, readEnvelope(t, a).Type)
}

func TestRejoinReplacesConnection(t *testing.T) {
	hub, base := startHub(t, Options{}, nil)
	first := dial(t, hub, base, "r1", "a", 1)
	second := dial(t, hub, base, "r1", "a", 1)

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation, websocket.CloseNormalClosure), "got %v", err)

	require.NoError(t, second.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, protocol.TypePong, readEnvelope(t, second).Type)
	assert.Equal(t, []string{"a"}, hub.Members("r1"))
}

func TestLeaveNotifiesPeers(t *testing.T) {
	hub, base := startHub(t, Options{}, nil)
	a := dial(t, hub, base, "r1", "a", 1)
	b := dial(t, hub, base, "r1", "b", 2)
	assert.Equal(t, protocol.TypePeerJoined, readEnvelope(t, a).Type)

	b.Close()
	env := readEnvelope(t, a)
	assert.Equal(t, protocol.TypePeerLeft, env.Type)
	assert.Equal(t, "b", env.Sender)
	assert.Eventually(t, func() bool { return len(hub.Members("r1")) == 1 }, time.Second, 5*time.Millisecond)
}

func TestOversizedFrameClosesConnection(t *testing.T) {
	hub, base := startHub(t, Options{ReadLimit: 64}, nil)
	a := dial(t, hub, base, "r1", "a", 1)

	big := `{"type":"score","data":{"scorer":"` + strings.Repeat("x", 200) + `"}}`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(big)))
	assert.Eventually(t, func() bool { return len(hub.Members("r1")) == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(Options{SendBuffer: 1})
	c := &Client{hub: hub, room: "r", actor: "slow", send: make(chan []byte, 1)}
	hub.rooms["r"] = map[string]*Client{"slow": c}

	hub.Broadcast("r", "", []byte("one"))
	hub.Broadcast("r", "", []byte("two"))

	assert.Len(t, c.send, 1)
	assert.Equal(t, "one", string(<-c.send))
}

func TestDeliverSkipsOriginalSender(t *testing.T) {
	hub := NewHub(Options{})
	a := &Client{hub: hub, room: "r", actor: "a", send: make(chan []byte, 4)}
	b := &Client{hub: hub, room: "r", actor: "b", send: make(chan []byte, 4)}
	hub.rooms["r"] = map[string]*Client{"a": a, "b": b}

	hub.Deliver("r", "a", []byte("frame"))

	assert.Len(t, a.send, 0)
	assert.Len(t, b.send, 1)
}
