package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lyricsync/cache"
	"lyricsync/config"
	"lyricsync/core/session"
	"lyricsync/db"
	"lyricsync/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Version is reported by the health endpoint and the version command.
var Version = "0.1.0"

// Server serves lyric sessions over websockets.
type Server struct {
	cfg      *config.Config
	hub      *session.Hub
	router   *mux.Router
	upgrader websocket.Upgrader
	echo     io.Writer

	// ctx is cancelled on shutdown and bounds every session
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer builds the router and starts the session hub. echo receives
// emitted lines when stdout echo is enabled and may be nil.
func NewServer(cfg *config.Config, presence *cache.PresenceCache, echo io.Writer) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg: cfg,
		hub: session.NewHub(presence),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
	if cfg.Stdout && echo != nil {
		s.echo = session.LockedWriter(echo)
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.WebSocketHandler)
	// existing player scripts connect to the bare host
	router.HandleFunc("/", s.WebSocketHandler)
	s.router = router

	go s.hub.Run()
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the session registry.
func (s *Server) Hub() *session.Hub {
	return s.hub
}

// Close ends every session.
func (s *Server) Close() {
	s.cancel()
	s.hub.Stop()
}

// Start connects the optional collaborators, serves until SIGINT/SIGTERM and
// shuts down gracefully.
func Start(cfg *config.Config) error {
	if cfg.RedisEnabled {
		if err := db.ConnectRedis(cfg); err != nil {
			return err
		}
		defer db.CloseRedis()
		logger.Info("connected to Redis", logger.String("addr", cfg.RedisAddr()))
	}

	srv := NewServer(cfg, cache.NewPresenceCache(db.RedisClient), os.Stdout)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", logger.String("addr", cfg.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-stop:
	}

	logger.Info("shutting down server")
	// hijacked websocket connections are not tracked by Shutdown
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
