// Package relay keeps the room registry and carries relayed frames between
// relay instances.
package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Peter211231231231232131/basketbgallgame/internal/auth"
)

var (
	ErrRoomNotFound  = errors.New("relay: room not found")
	ErrBadPassphrase = errors.New("relay: wrong passphrase")
)

type Room struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Private        bool      `json:"private"`
	PassphraseHash string    `json:"-"`
}

// Registry stores rooms.
type Registry interface {
	Create(ctx context.Context, passphrase string) (Room, error)
	Get(ctx context.Context, id string) (Room, error)
}

// Join looks the room up and checks the passphrase.
func Join(ctx context.Context, reg Registry, id, passphrase string) (Room, error) {
	room, err := reg.Get(ctx, id)
	if err != nil {
		return Room{}, err
	}
	if !auth.CheckPassphrase(room.PassphraseHash, passphrase) {
		return Room{}, ErrBadPassphrase
	}
	return room, nil
}

func newRoom(passphrase string) (Room, error) {
	room := Room{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if passphrase != "" {
		h, err := auth.HashPassphrase(passphrase)
		if err != nil {
			return Room{}, fmt.Errorf("relay: hash passphrase: %w", err)
		}
		room.PassphraseHash = h
		room.Private = true
	}
	return room, nil
}

// MemoryRegistry is a process-local Registry.
type MemoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]Room
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{rooms: make(map[string]Room)}
}

func (r *MemoryRegistry) Create(_ context.Context, passphrase string) (Room, error) {
	room, err := newRoom(passphrase)
	if err != nil {
		return Room{}, err
	}
	r.mu.Lock()
	r.rooms[room.ID] = room
	r.mu.Unlock()
	return room, nil
}

func (r *MemoryRegistry) Get(_ context.Context, id string) (Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return room, nil
}
