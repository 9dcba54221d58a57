package core

import (
	"errors"
	"sync"
	"time"
)

type (
	// ConnID identifies a transport-level connection. Connections are owned
	// by the transport layer; the core only stores and compares them.
	ConnID string

	// PlaybackState is the shared playback clock reconciled between the two
	// peers of a room. The server copy is authoritative; peers overwrite it
	// with every control and heartbeat event (last writer wins).
	PlaybackState struct {
		Time   float64 `json:"time"`
		Paused bool    `json:"paused"`
	}

	// Room pairs a host and a client around one shared video file. The zero
	// ConnID marks a vacant slot. The embedded mutex guards every mutable
	// field; it is allocated together with the room so a room can never
	// exist without its lock.
	Room struct {
		sync.Mutex

		ID          string
		HostConn    ConnID
		ClientConn  ConnID
		Fingerprint string
		DisplayName string
		State       PlaybackState
		LastActive  time.Time
	}
)

var (
	ErrInvalidRequest  = errors.New("missing required fields")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrContentMismatch = errors.New("video content mismatch")
)

// Counterpart returns the connection that should receive an update sent by
// sender, i.e. the occupied slot that is not the sender's. A sender bound to
// neither slot gets nothing: unbound connections cannot inject traffic into
// a room they never joined. Callers must hold the room lock.
func (r *Room) Counterpart(sender ConnID) (ConnID, bool) {
	switch {
	case sender != "" && sender == r.HostConn:
		return r.ClientConn, r.ClientConn != ""
	case sender != "" && sender == r.ClientConn:
		return r.HostConn, r.HostConn != ""
	}
	return "", false
}

// Member reports whether conn occupies either slot. Callers must hold the
// room lock.
func (r *Room) Member(conn ConnID) bool {
	return conn != "" && (conn == r.HostConn || conn == r.ClientConn)
}

// Vacant reports whether both slots are empty. Callers must hold the room
// lock.
func (r *Room) Vacant() bool {
	return r.HostConn == "" && r.ClientConn == ""
}

// DropConn vacates whichever slot conn occupies and reports whether the room
// changed. Callers must hold the room lock.
func (r *Room) DropConn(conn ConnID) bool {
	changed := false
	if conn != "" && r.HostConn == conn {
		r.HostConn = ""
		changed = true
	}
	if conn != "" && r.ClientConn == conn {
		r.ClientConn = ""
		changed = true
	}
	return changed
}
