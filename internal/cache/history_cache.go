package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

const (
	keyPrefix        = "krushisevak:chat:history:"
	versionKeyPrefix = "krushisevak:chat:history:version:"
)

var errStaleHistory = errors.New("history version changed")

// HistoryCache keeps the JSON of GET /chat-history results per participant.
// Each participant also has a version counter bumped on every new message;
// a history read from the store is only cached if the version it started
// from is still current.
type HistoryCache struct {
	client     *redis.Client
	ttl        time.Duration
	versionTTL time.Duration
}

func NewHistoryCache(client *redis.Client, ttl time.Duration) *HistoryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	versionTTL := 24 * time.Hour
	if versionTTL < 10*ttl {
		versionTTL = 10 * ttl
	}
	return &HistoryCache{client: client, ttl: ttl, versionTTL: versionTTL}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// GetHistory reports false when nothing is cached for participantID.
func (c *HistoryCache) GetHistory(ctx context.Context, participantID string) ([]model.ChatMessage, bool, error) {
	raw, err := c.client.Get(ctx, historyKey(participantID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return msgs, true, nil
}

// Version returns the participant's current history version, 0 if none.
// Read it before loading history from the store and pass it to SetHistory.
func (c *HistoryCache) Version(ctx context.Context, participantID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(participantID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get history version failed: %w", err)
	}
	return v, nil
}

// SetHistory caches msgs only while the participant is still at version.
// It reports false, with no error, when a newer message made msgs stale.
func (c *HistoryCache) SetHistory(ctx context.Context, participantID string, msgs []model.ChatMessage, version int64) (bool, error) {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return false, fmt.Errorf("marshal history cache failed: %w", err)
	}

	vkey := versionKey(participantID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != version {
			return errStaleHistory
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, historyKey(participantID), payload, c.ttl)
			return nil
		})
		return err
	}, vkey)

	if errors.Is(err, errStaleHistory) || errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set history failed: %w", err)
	}
	return true, nil
}

// Invalidate bumps the version and drops the cached history of every given
// participant in one transaction.
func (c *HistoryCache) Invalidate(ctx context.Context, participantIDs ...string) error {
	if len(participantIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range participantIDs {
			pipe.Incr(ctx, versionKey(id))
			pipe.Expire(ctx, versionKey(id), c.versionTTL)
			pipe.Del(ctx, historyKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate history failed: %w", err)
	}
	return nil
}

func historyKey(participantID string) string {
	return keyPrefix + participantID
}

func versionKey(participantID string) string {
	return versionKeyPrefix + participantID
}
