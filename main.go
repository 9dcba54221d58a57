package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syncflix-server/handlers/api/stats"
	"syncflix-server/handlers/websocket"
	"syncflix-server/rooms"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

func setupRouter(registry *rooms.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", stats.HandleHealthz())
	r.Get("/api/stats", stats.HandleGetStats(registry))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func waitForShutdown(ioo *socketio.Server, cancel context.CancelFunc) {
	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	fmt.Println("Shutting down...")
	cancel()
	ioo.Close(nil)
	os.Exit(0)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		logrus.WithField("key", key).Warn("Ignoring unparseable duration in environment")
	}
	return fallback
}

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	logLevel := flag.String("loglevel", envOr("LOG_LEVEL", "info"), "Set the logging level: debug, info, warn, error, fatal, panic")
	listenAddr := flag.String("listen", envOr("LISTEN_ADDR", ":5000"), "Set the server listen address")
	roomTTL := flag.Duration("room-ttl", envDurationOr("ROOM_TTL", rooms.DefaultRoomTTL), "Delete rooms inactive for longer than this")
	sweepInterval := flag.Duration("sweep-interval", envDurationOr("SWEEP_INTERVAL", rooms.DefaultSweepInterval), "How often the cleanup sweeper runs")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logrus.SetLevel(level)

	registry := rooms.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := &rooms.Sweeper{
		Registry: registry,
		Interval: *sweepInterval,
		TTL:      *roomTTL,
	}
	go sweeper.Run(ctx)

	r := setupRouter(registry)
	ioo := websocket.SetupSocketIO(registry)
	r.Handle("/socket.io/", ioo.ServeHandler(nil))

	logrus.WithFields(logrus.Fields{
		"addr":           *listenAddr,
		"room_ttl":       *roomTTL,
		"sweep_interval": *sweepInterval,
	}).Info("Starting SyncFlix coordination server")
	go func() {
		if err := http.ListenAndServe(*listenAddr, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(ioo, cancel)
}
