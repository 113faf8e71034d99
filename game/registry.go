package game

import (
	"strings"
	"sync"
)

// NormalizeRoomCode makes room codes case-insensitive by convention.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Registry maps room codes to live sessions. The registry lock only guards
// the map itself; each RoomSession serializes its own mutations, so traffic
// in one room never contends with another.
type Registry struct {
	locker     sync.RWMutex
	rooms      map[string]*RoomSession
	maxPlayers int
}

func NewRegistry(maxPlayers int) *Registry {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Registry{
		rooms:      make(map[string]*RoomSession),
		maxPlayers: maxPlayers,
	}
}

// GetOrCreate returns the session for the code, creating it lazily on first
// join.
func (r *Registry) GetOrCreate(code string) *RoomSession {
	code = NormalizeRoomCode(code)

	r.locker.Lock()
	defer r.locker.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		room = NewRoomSession(code, r.maxPlayers)
		r.rooms[code] = room
	}
	return room
}

func (r *Registry) Get(code string) (*RoomSession, bool) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	room, ok := r.rooms[NormalizeRoomCode(code)]
	return room, ok
}

// Remove evicts the session, but only while its roster is empty. Returns
// whether an eviction happened.
func (r *Registry) Remove(code string) bool {
	code = NormalizeRoomCode(code)

	r.locker.Lock()
	defer r.locker.Unlock()

	room, ok := r.rooms[code]
	if !ok || room.Len() != 0 {
		return false
	}
	delete(r.rooms, code)
	return true
}

func (r *Registry) Len() int {
	r.locker.RLock()
	defer r.locker.RUnlock()
	return len(r.rooms)
}
