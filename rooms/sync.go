package rooms

import (
	"time"

	"syncflix-server/core"
)

// Action is a playback control verb reported by a peer.
type Action string

const (
	ActionPlay  Action = "play"
	ActionPause Action = "pause"
	ActionSeek  Action = "seek"
)

// Update is the outcome of applying a control or heartbeat event. Target is
// the counterpart connection the new state must be sent to; it is empty when
// the other slot is vacant, in which case the update was applied but has
// nobody to go to.
type Update struct {
	State  core.PlaybackState
	Target core.ConnID
}

// Control applies a play/pause/seek event to the room's playback clock.
// Every action overwrites the clock position with the reported time
// (last writer wins); play and pause additionally flip the paused flag.
// When hasTime is false the current position is kept.
//
// Events on unknown rooms, or from connections bound to neither slot, are
// dropped: ok is false and the room is left untouched.
func (reg *Registry) Control(roomID string, action Action, seconds float64, hasTime bool, sender core.ConnID) (Update, bool) {
	return reg.apply(roomID, sender, func(room *core.Room) {
		switch action {
		case ActionPlay:
			room.State.Paused = false
		case ActionPause:
			room.State.Paused = true
		}
		if hasTime {
			room.State.Time = seconds
		}
	})
}

// Heartbeat unconditionally overwrites both playback fields from the host's
// periodic drift-correction report. Routing follows the same rules as
// Control.
func (reg *Registry) Heartbeat(roomID string, seconds float64, paused bool, sender core.ConnID) (Update, bool) {
	return reg.apply(roomID, sender, func(room *core.Room) {
		room.State.Time = seconds
		room.State.Paused = paused
	})
}

func (reg *Registry) apply(roomID string, sender core.ConnID, mutate func(*core.Room)) (Update, bool) {
	room, ok := reg.Get(roomID)
	if !ok {
		return Update{}, false
	}

	room.Lock()
	defer room.Unlock()

	if !room.Member(sender) {
		return Update{}, false
	}

	mutate(room)
	room.LastActive = time.Now()

	target, _ := room.Counterpart(sender)
	return Update{State: room.State, Target: target}, true
}

// Counterpart returns the connection opposite sender in the room, for
// relaying negotiation payloads. False when the room is unknown, sender is
// not a member, or the other slot is vacant.
func (reg *Registry) Counterpart(roomID string, sender core.ConnID) (core.ConnID, bool) {
	room, ok := reg.Get(roomID)
	if !ok {
		return "", false
	}
	room.Lock()
	defer room.Unlock()
	return room.Counterpart(sender)
}
