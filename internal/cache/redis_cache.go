package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mwasonga/customer-console/internal/models"
)

// redisCache implements Client using Redis
type redisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
	Key string
	TTL time.Duration
}

// NewRedisCache creates a new Redis-backed account list cache
func NewRedisCache(cfg RedisConfig, logger *slog.Logger) (Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("connected to Redis",
		slog.String("addr", opts.Addr),
		slog.String("key", cfg.Key),
	)

	return &redisCache{
		client: client,
		key:    cfg.Key,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// GetList returns the cached account list
func (c *redisCache) GetList(ctx context.Context) ([]models.CustomerAccount, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached list: %w", err)
	}

	var accounts []models.CustomerAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		// A corrupt entry behaves like a miss; the next SetList
		// overwrites it.
		c.logger.Error("failed to unmarshal cached list", slog.String("error", err.Error()))
		return nil, ErrMiss
	}

	c.logger.Debug("cache hit", slog.Int("count", len(accounts)))
	return accounts, nil
}

// SetList stores the account list
func (c *redisCache) SetList(ctx context.Context, accounts []models.CustomerAccount) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal account list: %w", err)
	}

	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache account list: %w", err)
	}

	c.logger.Debug("cache filled", slog.Int("count", len(accounts)))
	return nil
}

// Invalidate drops the cached list
func (c *redisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	c.logger.Debug("cache invalidated")
	return nil
}

// Close closes the Redis connection
func (c *redisCache) Close() error {
	c.logger.Info("closing Redis connection")
	return c.client.Close()
}

// Health checks if Redis is healthy
func (c *redisCache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis health check failed: %w", err)
	}
	return nil
}
