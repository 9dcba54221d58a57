package websocket

import (
	"time"

	"github.com/oklog/ulid/v2"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"syncflix-server/core"
	"syncflix-server/metrics"
	"syncflix-server/rooms"
)

// relayHandler forwards a peer negotiation payload verbatim to the
// counterpart connection under the same event name. The payload is opaque to
// the server: nothing inspects or validates it. Events on unknown rooms, or
// from connections that never joined the room, are dropped without a reply.
func relayHandler(srv *socketio.Server, registry *rooms.Registry, me core.ConnID, event, field string) func(datas ...any) {
	return func(datas ...any) {
		data := payloadOf(datas)
		roomID := stringField(data, "room_id")
		if roomID == "" {
			return
		}

		target, ok := registry.Counterpart(roomID, me)
		if !ok {
			return
		}

		metrics.SignalsRelayed.WithLabelValues(event).Inc()
		srv.To(socketio.Room(string(target))).Emit(event, map[string]any{
			"room_id": roomID,
			field:     data[field],
		})
	}
}

// handleChatMessage broadcasts a chat line to the whole room, sender
// included. The echo is intentional: unlike state traffic, chat rendering is
// driven by the server broadcast on both ends.
func handleChatMessage(srv *socketio.Server, registry *rooms.Registry, me core.ConnID, data map[string]any) {
	roomID := stringField(data, "room_id")
	if roomID == "" || !registry.Has(roomID) {
		return
	}

	metrics.ChatMessages.Inc()
	srv.In(socketio.Room(roomID)).Emit("chat_message", map[string]any{
		"id":      ulid.Make().String(),
		"sender":  string(me),
		"message": stringField(data, "message"),
		"ts":      time.Now().UnixMilli(),
	})
}
