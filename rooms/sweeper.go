package rooms

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"syncflix-server/core"
	"syncflix-server/metrics"
)

const (
	DefaultRoomTTL       = time.Hour
	DefaultSweepInterval = time.Minute
)

// Sweep deletes every room whose two slots are both vacant, or whose last
// activity is older than ttl, and returns the deleted ids. Each room is
// checked under its own lock so a sweep never stalls live traffic; the
// registry write lock is taken per deletion, with eligibility re-checked
// there in case a peer joined between the two passes.
func (reg *Registry) Sweep(ttl time.Duration, now time.Time) []string {
	reg.mu.RLock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	reg.mu.RUnlock()

	expired := func(room *core.Room) bool {
		return room.Vacant() || now.Sub(room.LastActive) > ttl
	}

	var candidates []string
	for _, id := range ids {
		reg.WithLock(id, func(room *core.Room) {
			if expired(room) {
				candidates = append(candidates, id)
			}
		})
	}

	var deleted []string
	for _, id := range candidates {
		reg.mu.Lock()
		if room, ok := reg.rooms[id]; ok {
			room.Lock()
			if expired(room) {
				delete(reg.rooms, id)
				deleted = append(deleted, id)
			}
			room.Unlock()
		}
		reg.mu.Unlock()
	}
	return deleted
}

// Sweeper periodically reclaims vacant and expired rooms. It runs outside
// the request path and is stopped through its context, so tests can skip it
// entirely and call Registry.Sweep directly.
type Sweeper struct {
	Registry *Registry
	Interval time.Duration
	TTL      time.Duration
}

func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted := s.Registry.Sweep(ttl, now)
			for _, id := range deleted {
				logrus.WithField("room_id", id).Info("Removed inactive room")
			}
			metrics.RoomsSwept.Add(float64(len(deleted)))
			metrics.LiveRooms.Set(float64(s.Registry.Len()))
		}
	}
}
