package websocket

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"syncflix-server/core"
	"syncflix-server/metrics"
	"syncflix-server/rooms"
)

// SetupSocketIO wires the coordination protocol onto a Socket.IO server.
// Every connected peer gets its own event handlers closed over its socket;
// targeted replies go through the implicit per-socket room that Socket.IO
// maintains for each connection id.
func SetupSocketIO(registry *rooms.Registry) *socketio.Server {
	opts := socketio.DefaultServerOptions()
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	srv := socketio.NewServer(nil, opts)

	//nolint:errcheck // Socket.IO event handlers do not return useful errors
	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}
		me := core.ConnID(socket.Id())

		socket.On("create_room", func(datas ...any) {
			handleCreateRoom(socket, registry, me, payloadOf(datas))
		})
		socket.On("join_room", func(datas ...any) {
			handleJoinRoom(srv, socket, registry, me, payloadOf(datas))
		})
		socket.On("control", func(datas ...any) {
			handleControl(srv, registry, me, payloadOf(datas))
		})
		socket.On("state_update", func(datas ...any) {
			handleHeartbeat(srv, registry, me, payloadOf(datas))
		})
		socket.On("offer", relayHandler(srv, registry, me, "offer", "offer"))
		socket.On("answer", relayHandler(srv, registry, me, "answer", "answer"))
		socket.On("ice_candidate", relayHandler(srv, registry, me, "ice_candidate", "candidate"))
		socket.On("chat_message", func(datas ...any) {
			handleChatMessage(srv, registry, me, payloadOf(datas))
		})

		socket.On("disconnect", func(datas ...any) {
			handleDisconnect(registry, me)
			socket.RemoveAllListeners("")
		})
	})

	return srv
}

func handleCreateRoom(socket *socketio.Socket, registry *rooms.Registry, me core.ConnID, data map[string]any) {
	fingerprint := stringField(data, "video_hash")
	filename := stringField(data, "filename")

	room, err := registry.CreateRoom(fingerprint, filename, me)
	if err != nil {
		emitError(socket, "Missing video metadata")
		return
	}
	socket.Join(socketio.Room(room.ID))

	metrics.RoomsCreated.Inc()
	metrics.LiveRooms.Set(float64(registry.Len()))
	logrus.WithFields(logrus.Fields{
		"room_id": room.ID,
		"conn":    me,
	}).Info("Room created")

	socket.Emit("room_created", map[string]any{
		"room_id":  room.ID,
		"filename": filename,
	})
}

func handleJoinRoom(srv *socketio.Server, socket *socketio.Socket, registry *rooms.Registry, me core.ConnID, data map[string]any) {
	roomID := stringField(data, "room_id")
	fingerprint := stringField(data, "video_hash")

	res, err := registry.Join(roomID, fingerprint, me)
	if err != nil {
		metrics.JoinFailures.WithLabelValues(failureReason(err)).Inc()
		emitError(socket, joinErrorMessage(err, roomID))
		return
	}

	socket.Join(socketio.Room(roomID))
	metrics.RoomsJoined.Inc()
	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"conn":    me,
	}).Info("Peer joined room")

	// State first to the joiner only, then the host notice, then the
	// room-wide go-ahead for peer negotiation.
	socket.Emit("sync_state", res.State)
	if res.Host != "" {
		srv.To(socketio.Room(string(res.Host))).Emit("peer_joined", map[string]any{
			"message": "Peer joined",
		})
	}
	srv.In(socketio.Room(roomID)).Emit("ready_for_call")
}

func handleDisconnect(registry *rooms.Registry, me core.ConnID) {
	if affected := registry.Disconnect(me); len(affected) > 0 {
		logrus.WithFields(logrus.Fields{
			"conn":  me,
			"rooms": len(affected),
		}).Debug("Cleared connection slots")
	}
}

func emitError(socket *socketio.Socket, message string) {
	socket.Emit("error", map[string]any{"message": message})
}

func joinErrorMessage(err error, roomID string) string {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return "Missing room id"
	case errors.Is(err, core.ErrRoomNotFound):
		return fmt.Sprintf("Room %s not found", roomID)
	case errors.Is(err, core.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, core.ErrContentMismatch):
		return "Video file mismatch! Make sure you selected the same file as the host."
	}
	return err.Error()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, core.ErrRoomNotFound):
		return "not_found"
	case errors.Is(err, core.ErrRoomFull):
		return "full"
	case errors.Is(err, core.ErrContentMismatch):
		return "mismatch"
	}
	return "other"
}
