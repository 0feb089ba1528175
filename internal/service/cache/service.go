package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/pkg/errors"
)

// timingKey holds the packed cooldown integer. The whole cooldown state is
// one scalar, so it persists as a plain string value.
const timingKey = "mudae:timing"

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

func (c *CacheService) GetRedisClient() *redis.Client {
	return c.client
}

// fail logs and wraps one failed operation.
func (c *CacheService) fail(message, op, key string, err error) error {
	c.logger.Error("Cache operation failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
	return errors.NewCacheError(message, op, key, err)
}

// Get unmarshals the JSON value under key into dest. A missing key is not
// an error; dest is left untouched.
func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return c.fail("get failed", "get", key, err)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return c.fail("unmarshal failed", "get", key, err)
	}
	return nil
}

// Set stores value as JSON under key. A zero ttl means no expiry.
func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}
	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return c.fail("set failed", "set", key, err)
	}
	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return c.fail("delete failed", "del", key, err)
	}
	return nil
}

// SaveTiming persists the packed cooldown integer without expiry.
func (c *CacheService) SaveTiming(ctx context.Context, packed uint64) error {
	value := strconv.FormatUint(packed, 10)
	if err := c.client.Set(ctx, timingKey, value, 0).Err(); err != nil {
		c.logger.Error("Failed to persist timing", zap.Error(err))
		return errors.NewCacheError("set failed", "set", timingKey, err)
	}
	return nil
}

// LoadTiming restores the packed cooldown integer. ok is false when no
// timing has ever been saved.
func (c *CacheService) LoadTiming(ctx context.Context) (packed uint64, ok bool, err error) {
	value, err := c.client.Get(ctx, timingKey).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		c.logger.Error("Failed to load timing", zap.Error(err))
		return 0, false, errors.NewCacheError("get failed", "get", timingKey, err)
	}

	packed, parseErr := strconv.ParseUint(value, 10, 64)
	if parseErr != nil {
		return 0, false, errors.NewCacheError("corrupt timing value", "get", timingKey, parseErr)
	}
	return packed, true, nil
}

func (c *CacheService) Close() error {
	return c.client.Close()
}
