package session

import (
	"context"
	"sync"
	"time"

	"lyricsync/cache"
	"lyricsync/logger"
)

const presenceTimeout = 2 * time.Second

// Hub keeps track of live sessions. It never touches their lyric state;
// every Client owns its own Writer.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	presence *cache.PresenceCache
}

// NewHub creates a hub. presence may be nil.
func NewHub(presence *cache.PresenceCache) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		presence:   presence,
	}
}

// Run processes registrations until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.done:
			h.cleanup()
			return
		}
	}
}

// Stop closes every session and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client. A client registered after Stop is closed at once.
// Presence is written on the caller's goroutine, outside the hub loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.presence.TouchSession(ctx, client.ID); err != nil {
		logger.Warn("failed to update session presence on register",
			logger.ErrorField(err),
			logger.String("session", client.ID))
	}
}

// Unregister removes a client. Its presence is dropped even after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.presence.RemoveSession(ctx, client.ID); err != nil {
		logger.Warn("failed to remove session presence on unregister",
			logger.ErrorField(err),
			logger.String("session", client.ID))
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client returns the session with the given id, or nil.
func (h *Hub) Client(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id]
}

// Presence returns the presence cache, nil when Redis is disabled.
func (h *Hub) Presence() *cache.PresenceCache {
	if h == nil {
		return nil
	}
	return h.presence
}

// ActiveCount returns the number of sessions with a live heartbeat across
// every process sharing the Redis instance. It is 0 without presence.
func (h *Hub) ActiveCount(ctx context.Context) (int64, error) {
	return h.Presence().ActiveCount(ctx)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	count := len(h.clients)
	h.mu.Unlock()

	logger.Info("client connected",
		logger.String("session", client.ID),
		logger.Int("sessions", count))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.ID]
	delete(h.clients, client.ID)
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	logger.Info("client disconnected",
		logger.String("session", client.ID),
		logger.Int("sessions", count))
}

// cleanup closes every session; their read pumps unregister and drop presence.
func (h *Hub) cleanup() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
