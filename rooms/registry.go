package rooms

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"syncflix-server/core"
)

// roomIDEntropyBytes is the amount of randomness behind every room id.
// Room ids double as the only admission token, so they must stay
// unguessable and never sequential.
const roomIDEntropyBytes = 12

type (
	// Registry owns the room id to room mapping. The registry mutex guards
	// the map itself; each room's own lock guards its fields, so traffic on
	// one room never blocks traffic on another.
	Registry struct {
		mu    sync.RWMutex
		rooms map[string]*core.Room
	}

	// Stats is an aggregate view of the registry for the stats endpoint.
	// It deliberately carries no room ids.
	Stats struct {
		Rooms         int `json:"rooms"`
		OccupiedSlots int `json:"occupied_slots"`
		PairedRooms   int `json:"paired_rooms"`
	}
)

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*core.Room),
	}
}

func newRoomID() string {
	b := make([]byte, roomIDEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; if it does, the
		// process cannot mint secure ids and must not continue.
		logrus.WithField("error", err).Fatal("Failed to read random bytes for room id")
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// CreateRoom mints a fresh room with creator bound to the host slot and a
// paused playback clock at zero. Id collisions are retried transparently;
// the room's lock is part of the room value, so it exists from the moment
// the room is visible in the map. Returns core.ErrInvalidRequest when the
// fingerprint or display name is missing.
func (reg *Registry) CreateRoom(fingerprint, displayName string, creator core.ConnID) (*core.Room, error) {
	if fingerprint == "" || displayName == "" {
		return nil, core.ErrInvalidRequest
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := newRoomID()
	for {
		if _, exists := reg.rooms[id]; !exists {
			break
		}
		id = newRoomID()
	}

	room := &core.Room{
		ID:          id,
		HostConn:    creator,
		Fingerprint: fingerprint,
		DisplayName: displayName,
		State:       core.PlaybackState{Time: 0, Paused: true},
		LastActive:  time.Now(),
	}
	reg.rooms[id] = room
	return room, nil
}

// Get returns the room for id, or false if it does not exist.
func (reg *Registry) Get(id string) (*core.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

// WithLock runs fn with exclusive access to one room's fields and reports
// whether the room existed. Only the named room is held; other rooms and the
// registry map stay available to concurrent callers.
func (reg *Registry) WithLock(id string, fn func(*core.Room)) bool {
	room, ok := reg.Get(id)
	if !ok {
		return false
	}
	room.Lock()
	defer room.Unlock()
	fn(room)
	return true
}

// Has reports whether a room with id currently exists.
func (reg *Registry) Has(id string) bool {
	_, ok := reg.Get(id)
	return ok
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Snapshot returns aggregate occupancy counts across all rooms.
func (reg *Registry) Snapshot() Stats {
	reg.mu.RLock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	reg.mu.RUnlock()

	var stats Stats
	for _, id := range ids {
		reg.WithLock(id, func(room *core.Room) {
			stats.Rooms++
			if room.HostConn != "" {
				stats.OccupiedSlots++
			}
			if room.ClientConn != "" {
				stats.OccupiedSlots++
			}
			if room.HostConn != "" && room.ClientConn != "" {
				stats.PairedRooms++
			}
		})
	}
	return stats
}
