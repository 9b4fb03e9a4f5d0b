package relay

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const channelPrefix = "relay:"

// Frame is a relayed frame on its way between instances.
type Frame struct {
	Origin  string `msgpack:"o"`
	Room    string `msgpack:"r"`
	Sender  string `msgpack:"s"`
	Payload []byte `msgpack:"p"`
}

// Deliverer receives frames relayed by other instances.
type Deliverer interface {
	Deliver(room, sender string, frame []byte)
}

// RedisBridge fans relayed frames out to every relay instance sharing the
// Redis server. Frames published by this instance are ignored on receipt.
type RedisBridge struct {
	rdb     *redis.Client
	origin  string
	deliver Deliverer
	log     *zap.Logger
}

func NewRedisBridge(rdb *redis.Client, deliver Deliverer, log *zap.Logger) *RedisBridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBridge{
		rdb:     rdb,
		origin:  uuid.NewString(),
		deliver: deliver,
		log:     log.Named("relay"),
	}
}

func (b *RedisBridge) Origin() string { return b.origin }

func (b *RedisBridge) Publish(ctx context.Context, room, sender string, frame []byte) error {
	payload, err := encodeFrame(Frame{Origin: b.origin, Room: room, Sender: sender, Payload: frame})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channelPrefix+room, payload).Err()
}

// Run consumes relay:* until ctx is done.
func (b *RedisBridge) Run(ctx context.Context) error {
	ps := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer ps.Close()
	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("relay: subscribe: %w", err)
	}
	b.log.Info("bridge subscribed", zap.String("origin", b.origin))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handle(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (b *RedisBridge) handle(channel string, payload []byte) {
	f, err := decodeFrame(payload)
	if err != nil {
		b.log.Warn("bad frame", zap.String("channel", channel), zap.Error(err))
		return
	}
	if f.Origin == b.origin {
		return
	}
	if room := strings.TrimPrefix(channel, channelPrefix); room != f.Room {
		b.log.Warn("frame room mismatch", zap.String("channel", channel), zap.String("room", f.Room))
		return
	}
	b.deliver.Deliver(f.Room, f.Sender, f.Payload)
}

func encodeFrame(f Frame) ([]byte, error) {
	b, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("relay: encode frame: %w", err)
	}
	return b, nil
}

func decodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("relay: decode frame: %w", err)
	}
	return f, nil
}
