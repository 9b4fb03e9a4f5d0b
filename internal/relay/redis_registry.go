package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const RoomTTL = 24 * time.Hour

// RedisRegistry keeps rooms as room:<id> hashes that expire after RoomTTL.
type RedisRegistry struct {
	rdb *redis.Client
}

func NewRedisRegistry(rdb *redis.Client) *RedisRegistry {
	return &RedisRegistry{rdb: rdb}
}

func roomKey(id string) string { return "room:" + id }

func (r *RedisRegistry) Create(ctx context.Context, passphrase string) (Room, error) {
	room, err := newRoom(passphrase)
	if err != nil {
		return Room{}, err
	}
	key := roomKey(room.ID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"created_at": room.CreatedAt.Unix(),
		"passphrase": room.PassphraseHash,
	})
	pipe.Expire(ctx, key, RoomTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return Room{}, fmt.Errorf("relay: store room: %w", err)
	}
	return room, nil
}

func (r *RedisRegistry) Get(ctx context.Context, id string) (Room, error) {
	var row struct {
		CreatedAt  int64  `redis:"created_at"`
		Passphrase string `redis:"passphrase"`
	}
	res := r.rdb.HGetAll(ctx, roomKey(id))
	if err := res.Err(); err != nil {
		return Room{}, fmt.Errorf("relay: load room: %w", err)
	}
	if len(res.Val()) == 0 {
		return Room{}, ErrRoomNotFound
	}
	if err := res.Scan(&row); err != nil {
		return Room{}, fmt.Errorf("relay: decode room: %w", err)
	}
	return Room{
		ID:             id,
		CreatedAt:      time.Unix(row.CreatedAt, 0).UTC(),
		Private:        row.Passphrase != "",
		PassphraseHash: row.Passphrase,
	}, nil
}
