package linkpreview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// KeyPrefixPreview is the prefix for cached preview keys.
const KeyPrefixPreview = "postmark:preview:"

// Cache stores resolved previews by URL. A miss returns ok == false and no error.
type Cache interface {
	Get(ctx context.Context, rawURL string) (p model.Preview, ok bool, err error)
	Set(ctx context.Context, rawURL string, p model.Preview, ttl time.Duration) error
}

// PreviewKey returns the Redis key for a URL.
func PreviewKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return KeyPrefixPreview + hex.EncodeToString(sum[:])
}

// RedisCache is a Cache backed by Redis string keys holding JSON.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, rawURL string) (model.Preview, bool, error) {
	data, err := c.client.Get(ctx, PreviewKey(rawURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Preview{}, false, nil // Cache miss
		}
		return model.Preview{}, false, fmt.Errorf("failed to get cached preview: %w", err)
	}

	var p model.Preview
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Preview{}, false, fmt.Errorf("failed to decode cached preview: %w", err)
	}
	return p, true, nil
}

func (c *RedisCache) Set(ctx context.Context, rawURL string, p model.Preview, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := c.client.Set(ctx, PreviewKey(rawURL), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache preview: %w", err)
	}
	return nil
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (model.Preview, bool, error) {
	return model.Preview{}, false, nil
}

func (NopCache) Set(context.Context, string, model.Preview, time.Duration) error {
	return nil
}

// ConnectRedis creates a client for addr and pings it once.
func ConnectRedis(ctx context.Context, addr string, log logger.Logger) (*redis.Client, error) {
	log.Info("connecting to redis", logger.String("addr", addr))

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", addr, err)
	}

	log.Info("connected to redis", logger.String("addr", addr))
	return client, nil
}
