package rooms

import (
	"time"

	"github.com/sirupsen/logrus"

	"syncflix-server/core"
)

// JoinResult carries what the coordinator needs to announce a successful
// join: the playback state for the joiner and the host connection to notify.
// Host is empty when the host slot is vacant (host dropped before the sweep).
type JoinResult struct {
	State core.PlaybackState
	Host  core.ConnID
}

// Join binds conn to the room's client slot. The capacity check and the
// fingerprint gate both run under the room lock so two racing joins can
// never both succeed. Returns core.ErrInvalidRequest, core.ErrRoomNotFound,
// core.ErrRoomFull or core.ErrContentMismatch on rejection; a rejected join
// leaves the room untouched.
func (reg *Registry) Join(roomID, fingerprint string, conn core.ConnID) (JoinResult, error) {
	if roomID == "" {
		return JoinResult{}, core.ErrInvalidRequest
	}

	room, ok := reg.Get(roomID)
	if !ok {
		return JoinResult{}, core.ErrRoomNotFound
	}

	room.Lock()
	defer room.Unlock()

	if room.ClientConn != "" {
		return JoinResult{}, core.ErrRoomFull
	}
	if fingerprint != room.Fingerprint {
		return JoinResult{}, core.ErrContentMismatch
	}

	room.ClientConn = conn
	room.LastActive = time.Now()
	return JoinResult{State: room.State, Host: room.HostConn}, nil
}

// Disconnect vacates every slot held by conn across all rooms and returns
// the affected room ids. Rooms are never deleted here: the slot stays open
// for the sweep window, which leaves a reconnect opportunity by design.
func (reg *Registry) Disconnect(conn core.ConnID) []string {
	reg.mu.RLock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	reg.mu.RUnlock()

	var affected []string
	for _, id := range ids {
		reg.WithLock(id, func(room *core.Room) {
			if room.DropConn(conn) {
				room.LastActive = time.Now()
				affected = append(affected, room.ID)
				logrus.WithFields(logrus.Fields{
					"room_id": room.ID,
					"conn":    conn,
				}).Info("Participant left room")
			}
		})
	}
	return affected
}
