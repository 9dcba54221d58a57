package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflix_rooms_created_total",
		Help: "Number of rooms created.",
	})
	RoomsJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflix_rooms_joined_total",
		Help: "Number of successful client joins.",
	})
	JoinFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncflix_join_failures_total",
		Help: "Number of rejected join attempts.",
	}, []string{"reason"})
	SyncEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncflix_sync_events_total",
		Help: "Number of applied playback control events.",
	}, []string{"action"})
	Heartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflix_heartbeats_total",
		Help: "Number of applied playback heartbeats.",
	})
	SignalsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncflix_signals_relayed_total",
		Help: "Number of relayed peer negotiation messages.",
	}, []string{"event"})
	ChatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflix_chat_messages_total",
		Help: "Number of chat messages broadcast.",
	})
	RoomsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflix_rooms_swept_total",
		Help: "Number of rooms reclaimed by the cleanup sweeper.",
	})
	LiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "syncflix_live_rooms",
		Help: "Number of rooms currently held in the registry.",
	})
)
