package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// writerConn is the slice of the websocket connection the hub needs.
// *websocket.Conn satisfies it.
type writerConn interface {
	WriteMessage(messageType int, data []byte) error
}

// session wraps one live connection. The websocket library forbids
// concurrent writers on a single connection, so every write must hold
// the session mutex.
type session struct {
	conn writerConn
	mu   sync.Mutex
}

func (s *session) write(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks which live connections have joined which job room. Rooms have
// no capacity limit; a connection may sit in any number of rooms.
type Hub struct {
	mu       sync.RWMutex
	sessions map[writerConn]*session
	rooms    map[uint]map[*session]bool
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[writerConn]*session),
		rooms:    make(map[uint]map[*session]bool),
	}
}

// sessionFor returns the one session owning conn, creating it on first
// sight. Caller must hold h.mu.
func (h *Hub) sessionFor(conn writerConn) *session {
	s, ok := h.sessions[conn]
	if !ok {
		s = &session{conn: conn}
		h.sessions[conn] = s
	}
	return s
}

// Join adds a connection to a job's room.
func (h *Hub) Join(jobID uint, conn writerConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.sessionFor(conn)
	if h.rooms[jobID] == nil {
		h.rooms[jobID] = make(map[*session]bool)
	}
	h.rooms[jobID][s] = true
}

// Leave removes a connection from every room it joined and forgets its
// session. Called on disconnect.
func (h *Hub) Leave(conn writerConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[conn]
	if !ok {
		return
	}
	delete(h.sessions, conn)
	for jobID, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, jobID)
		}
	}
}

// Broadcast writes payload to every member of the job's room, the sender
// included. Fire and forget: a failed write drops that one member, nothing
// is retried.
func (h *Hub) Broadcast(jobID uint, payload []byte) {
	h.mu.RLock()
	members := make([]*session, 0, len(h.rooms[jobID]))
	for s := range h.rooms[jobID] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if err := s.write(payload); err != nil {
			h.mu.Lock()
			if room, ok := h.rooms[jobID]; ok {
				delete(room, s)
				if len(room) == 0 {
					delete(h.rooms, jobID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendTo writes payload to a single connection, serialized against any
// broadcast targeting the same connection.
func (h *Hub) SendTo(conn writerConn, payload []byte) error {
	h.mu.Lock()
	s := h.sessionFor(conn)
	h.mu.Unlock()
	return s.write(payload)
}

// RoomSize reports the current number of sessions in a job's room.
func (h *Hub) RoomSize(jobID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[jobID])
}
