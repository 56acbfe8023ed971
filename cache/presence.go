package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionPresenceKey = "lyricsync:session:%s" // String: heartbeat of one session
	sessionPresenceSet = "lyricsync:sessions"   // Set: ids of sessions seen online
	presenceTTL        = 60 * time.Second
)

// PresenceCache records which sessions are connected.
// A nil *PresenceCache is valid and does nothing.
type PresenceCache struct {
	client *redis.Client
}

// NewPresenceCache returns nil when client is nil.
func NewPresenceCache(client *redis.Client) *PresenceCache {
	if client == nil {
		return nil
	}
	return &PresenceCache{client: client}
}

// TTL is how long a session stays online without a heartbeat.
func (c *PresenceCache) TTL() time.Duration {
	return presenceTTL
}

// TouchSession refreshes the heartbeat of a session.
func (c *PresenceCache) TouchSession(ctx context.Context, sessionID string) error {
	if c == nil {
		return nil
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(sessionPresenceKey, sessionID), time.Now().UnixMilli(), presenceTTL)
	pipe.SAdd(ctx, sessionPresenceSet, sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveSession drops the heartbeat of a session.
func (c *PresenceCache) RemoveSession(ctx context.Context, sessionID string) error {
	if c == nil {
		return nil
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, fmt.Sprintf(sessionPresenceKey, sessionID))
	pipe.SRem(ctx, sessionPresenceSet, sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

// ActiveCount counts sessions with a live heartbeat and prunes expired ids.
func (c *PresenceCache) ActiveCount(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}

	members, err := c.client.SMembers(ctx, sessionPresenceSet).Result()
	if err != nil {
		return 0, err
	}

	var active int64
	expired := make([]interface{}, 0)
	for _, id := range members {
		exists, err := c.client.Exists(ctx, fmt.Sprintf(sessionPresenceKey, id)).Result()
		if err != nil {
			continue
		}
		if exists > 0 {
			active++
		} else {
			expired = append(expired, id)
		}
	}

	if len(expired) > 0 {
		c.client.SRem(ctx, sessionPresenceSet, expired...)
	}
	return active, nil
}
