// Package relayclient connects a match process to the relay. Outbound
// state is coalesced so only the newest actor and ball update is ever
// queued; inbound frames are handed to a Sink.
package relayclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Peter211231231231232131/basketbgallgame/internal/game"
	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
	"github.com/Peter211231231231232131/basketbgallgame/internal/protocol"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// Sink receives relayed peer state. *game.Match satisfies it.
type Sink interface {
	ApplyRemoteActor(game.RemoteActorUpdate)
	ApplyRemoteBall(game.RemoteBallUpdate)
}

// PeerSink is optionally implemented by a Sink that wants join, leave and
// score notices.
type PeerSink interface {
	PeerJoined(id, name string)
	PeerLeft(id string)
	ScoreReported(from string, s protocol.ScoreData)
}

type Client struct {
	conn *websocket.Conn
	log  *zap.Logger

	mu    sync.Mutex
	actor *protocol.ActorStateData
	ball  *protocol.BallStateData
	score *protocol.ScoreData
	wake  chan struct{}
}

// Dial opens the relay socket at url, which carries the ticket.
func Dial(ctx context.Context, url string, log *zap.Logger) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relayclient: dial: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("relayclient: dial: %w", err)
	}
	return newClient(conn, log), nil
}

func newClient(conn *websocket.Conn, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{conn: conn, log: log.Named("relayclient"), wake: make(chan struct{}, 1)}
}

// SendActor replaces any queued pose with d. It never blocks.
func (c *Client) SendActor(d protocol.ActorStateData) {
	c.mu.Lock()
	c.actor = &d
	c.mu.Unlock()
	c.signal()
}

// SendBall replaces any queued ball update with d. It never blocks.
func (c *Client) SendBall(d protocol.BallStateData) {
	c.mu.Lock()
	c.ball = &d
	c.mu.Unlock()
	c.signal()
}

func (c *Client) SendScore(d protocol.ScoreData) {
	c.mu.Lock()
	c.score = &d
	c.mu.Unlock()
	c.signal()
}

func (c *Client) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// take empties the outbound slots.
func (c *Client) take() (frames [][]byte, err error) {
	c.mu.Lock()
	actor, ball, score := c.actor, c.ball, c.score
	c.actor, c.ball, c.score = nil, nil, nil
	c.mu.Unlock()

	add := func(t string, v any) {
		if err != nil {
			return
		}
		var b []byte
		if b, err = protocol.Encode(t, v); err == nil {
			frames = append(frames, b)
		}
	}
	if actor != nil {
		add(protocol.TypeActorState, actor)
	}
	if ball != nil {
		add(protocol.TypeBallState, ball)
	}
	if score != nil {
		add(protocol.TypeScore, score)
	}
	return frames, err
}

// Run pumps frames both ways until ctx is done or the connection fails.
func (c *Client) Run(ctx context.Context, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.writeLoop(ctx) })
	g.Go(func() error { return c.readLoop(sink) })
	g.Go(func() error {
		<-ctx.Done()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		return c.conn.Close()
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
		return nil
	}
	return err
}

func (c *Client) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
		}
		frames, err := c.take()
		if err != nil {
			return err
		}
		for _, f := range frames {
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, f); err != nil {
				return fmt.Errorf("relayclient: write: %w", err)
			}
		}
	}
}

func (c *Client) readLoop(sink Sink) error {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPingHandler(func(data string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		err := c.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	peers, _ := sink.(PeerSink)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		env, err := protocol.Decode(msg)
		if err != nil {
			c.log.Warn("dropping malformed frame", zap.Error(err))
			continue
		}
		if err := dispatch(env, sink, peers); err != nil {
			c.log.Debug("dropping frame", zap.String("type", env.Type), zap.Error(err))
		}
	}
}

func dispatch(env protocol.Envelope, sink Sink, peers PeerSink) error {
	switch env.Type {
	case protocol.TypeActorState:
		d, err := protocol.DecodePayload[protocol.ActorStateData](env)
		if err != nil {
			return err
		}
		sink.ApplyRemoteActor(game.RemoteActorUpdate{ID: physics.ActorID(env.Sender), Position: d.Position, Yaw: d.Yaw})
	case protocol.TypeBallState:
		d, err := protocol.DecodePayload[protocol.BallStateData](env)
		if err != nil {
			return err
		}
		sink.ApplyRemoteBall(game.RemoteBallUpdate{Owner: physics.ActorID(d.Owner), Position: d.Position, Velocity: d.Velocity})
	case protocol.TypeScore:
		d, err := protocol.DecodePayload[protocol.ScoreData](env)
		if err != nil {
			return err
		}
		if peers != nil {
			peers.ScoreReported(env.Sender, d)
		}
	case protocol.TypePeerJoined:
		if peers != nil {
			d, _ := protocol.DecodePayload[protocol.PeerData](env)
			peers.PeerJoined(env.Sender, d.Name)
		}
	case protocol.TypePeerLeft:
		if peers != nil {
			peers.PeerLeft(env.Sender)
		}
	case protocol.TypeError:
		d, _ := protocol.DecodePayload[protocol.ErrorData](env)
		return fmt.Errorf("relay error: %s", d.Message)
	}
	return nil
}
