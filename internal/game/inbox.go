package game

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

// RemoteActorUpdate is the latest relayed pose of a remote player.
type RemoteActorUpdate struct {
	ID       physics.ActorID
	Position mgl64.Vec3
	Yaw      float64
}

// RemoteBallUpdate is the latest relayed ball state. An empty Owner means
// the ball is loose.
type RemoteBallUpdate struct {
	Owner    physics.ActorID
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// inbox buffers relay traffic between ticks. Only the newest update per
// actor and the newest ball update survive.
type inbox struct {
	mu     sync.Mutex
	actors map[physics.ActorID]RemoteActorUpdate
	ball   *RemoteBallUpdate
}

func newInbox() *inbox {
	return &inbox{actors: make(map[physics.ActorID]RemoteActorUpdate)}
}

func (b *inbox) putActor(u RemoteActorUpdate) {
	b.mu.Lock()
	b.actors[u.ID] = u
	b.mu.Unlock()
}

func (b *inbox) putBall(u RemoteBallUpdate) {
	b.mu.Lock()
	b.ball = &u
	b.mu.Unlock()
}

// drain hands back everything buffered and resets the inbox.
func (b *inbox) drain() (map[physics.ActorID]RemoteActorUpdate, *RemoteBallUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	actors, ball := b.actors, b.ball
	if len(actors) > 0 {
		b.actors = make(map[physics.ActorID]RemoteActorUpdate, len(actors))
	}
	b.ball = nil
	return actors, ball
}
