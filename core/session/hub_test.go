package session

import (
	"context"
	"testing"
	"time"

	"lyricsync/cache"
	"lyricsync/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil, Options{})
	b := NewClient(hub, nil, Options{})
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.Count() == 2 })

	if hub.Client(a.ID) != a {
		t.Error("expected to find client a")
	}

	hub.Unregister(a)
	waitFor(t, func() bool { return hub.Count() == 1 })
	if hub.Client(a.ID) != nil {
		t.Error("expected client a to be gone")
	}

	// unregistering twice is harmless
	hub.Unregister(a)
	waitFor(t, func() bool { return hub.Count() == 1 })
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	c := NewClient(hub, nil, Options{})
	hub.Register(c)
	waitFor(t, func() bool { return hub.Count() == 1 })

	hub.Stop()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected client to be closed on stop")
	}

	late := NewClient(hub, nil, Options{})
	hub.Register(late)
	select {
	case <-late.Done():
	case <-time.After(2 * time.Second):
		t.Error("expected a client registered after stop to be closed")
	}
}

func newTestPresence(t *testing.T) (*cache.PresenceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewPresenceCache(client), mr
}

func TestHubTracksPresence(t *testing.T) {
	presence, mr := newTestPresence(t)
	hub := NewHub(presence)
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil, Options{})
	b := NewClient(hub, nil, Options{})
	hub.Register(a)
	hub.Register(b)

	// Register writes presence before returning
	if !mr.Exists("lyricsync:session:" + a.ID) {
		t.Fatal("expected heartbeat for a after Register")
	}
	n, err := hub.ActiveCount(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected (2, nil), got (%d, %v)", n, err)
	}

	hub.Unregister(a)
	if mr.Exists("lyricsync:session:" + a.ID) {
		t.Error("expected heartbeat for a to be removed after Unregister")
	}
	n, err = hub.ActiveCount(context.Background())
	if err != nil || n != 1 {
		t.Errorf("expected (1, nil), got (%d, %v)", n, err)
	}
	waitFor(t, func() bool { return hub.Count() == 1 })
}

func TestHubActiveCountWithoutPresence(t *testing.T) {
	hub := NewHub(nil)
	n, err := hub.ActiveCount(context.Background())
	if err != nil || n != 0 {
		t.Errorf("expected (0, nil), got (%d, %v)", n, err)
	}
}

func TestHubRegisterSurvivesRedisFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.ReplaceLogger(zap.New(core))
	defer restore()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	hub := NewHub(cache.NewPresenceCache(client))
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil, Options{})
	hub.Register(a)
	waitFor(t, func() bool { return hub.Count() == 1 })

	// the hub loop is not held up by the failed write
	b := NewClient(hub, nil, Options{})
	hub.Register(b)
	waitFor(t, func() bool { return hub.Count() == 2 })

	if logs.FilterMessage("failed to update session presence on register").Len() != 2 {
		t.Errorf("expected two presence warnings, got %d entries", logs.Len())
	}
}
