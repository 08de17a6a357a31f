package ws

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubConn records frames without any internal locking, so the race
// detector catches the hub if it ever writes to one connection from two
// goroutines at once.
type stubConn struct {
	frames [][]byte
	failed bool
}

func (c *stubConn) WriteMessage(messageType int, data []byte) error {
	if c.failed {
		return errors.New("connection gone")
	}
	c.frames = append(c.frames, data)
	return nil
}

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub()
	a := &stubConn{}
	b := &stubConn{}

	hub.Join(7, a)
	hub.Join(7, b)
	assert.Equal(t, 2, hub.RoomSize(7))

	// Joining twice is idempotent.
	hub.Join(7, a)
	assert.Equal(t, 2, hub.RoomSize(7))

	// A connection can sit in several rooms; leaving removes it everywhere.
	hub.Join(8, a)
	assert.Equal(t, 1, hub.RoomSize(8))

	hub.Leave(a)
	assert.Equal(t, 1, hub.RoomSize(7))
	assert.Equal(t, 0, hub.RoomSize(8))

	hub.Leave(b)
	assert.Equal(t, 0, hub.RoomSize(7))
}

func TestHubUnknownRoom(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.RoomSize(99))

	// Broadcasting into an empty room is a no-op.
	hub.Broadcast(99, []byte("nobody home"))
}

func TestHubBroadcastReachesEveryMember(t *testing.T) {
	hub := NewHub()
	a := &stubConn{}
	b := &stubConn{}
	hub.Join(3, a)
	hub.Join(3, b)

	hub.Broadcast(3, []byte("hello"))

	assert.Len(t, a.frames, 1)
	assert.Len(t, b.frames, 1)
	assert.Equal(t, []byte("hello"), a.frames[0])
}

func TestHubDropsMemberOnWriteFailure(t *testing.T) {
	hub := NewHub()
	healthy := &stubConn{}
	broken := &stubConn{failed: true}
	hub.Join(3, healthy)
	hub.Join(3, broken)

	hub.Broadcast(3, []byte("hello"))

	assert.Equal(t, 1, hub.RoomSize(3))
	assert.Len(t, healthy.frames, 1)
}

// Broadcasts from many goroutines plus direct sends must never hit one
// connection concurrently. Run with -race.
func TestHubSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	shared := &stubConn{}
	hub.Join(5, shared)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(5, []byte("fan-out"))
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, hub.SendTo(shared, []byte("direct")))
		}()
	}
	wg.Wait()

	assert.Len(t, shared.frames, writers*2)
}
