package stats

import (
	"net/http"

	"github.com/go-chi/render"

	"syncflix-server/rooms"
)

// HandleGetStats reports aggregate occupancy only. Room ids are admission
// tokens and must never be listed.
func HandleGetStats(registry *rooms.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, registry.Snapshot())
	}
}

// HandleHealthz is a plain liveness probe.
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
