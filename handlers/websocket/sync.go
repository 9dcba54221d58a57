package websocket

import (
	socketio "github.com/zishang520/socket.io/v2/socket"

	"syncflix-server/core"
	"syncflix-server/metrics"
	"syncflix-server/rooms"
)

// Playback control and heartbeat events both end the same way: the updated
// state goes to the counterpart only, never back to the sender. A vacant
// counterpart slot means the update is applied and silently kept.

func handleControl(srv *socketio.Server, registry *rooms.Registry, me core.ConnID, data map[string]any) {
	roomID := stringField(data, "room_id")
	if roomID == "" {
		return
	}
	action := rooms.Action(stringField(data, "action"))
	seconds, hasTime := floatField(data, "time")

	update, ok := registry.Control(roomID, action, seconds, hasTime, me)
	if !ok {
		return
	}

	metrics.SyncEvents.WithLabelValues(string(action)).Inc()
	sendState(srv, update)
}

func handleHeartbeat(srv *socketio.Server, registry *rooms.Registry, me core.ConnID, data map[string]any) {
	roomID := stringField(data, "room_id")
	if roomID == "" {
		return
	}
	seconds, _ := floatField(data, "time")
	paused := boolField(data, "paused", true)

	update, ok := registry.Heartbeat(roomID, seconds, paused, me)
	if !ok {
		return
	}

	metrics.Heartbeats.Inc()
	sendState(srv, update)
}

func sendState(srv *socketio.Server, update rooms.Update) {
	if update.Target == "" {
		return
	}
	srv.To(socketio.Room(string(update.Target))).Emit("sync_state", update.State)
}
