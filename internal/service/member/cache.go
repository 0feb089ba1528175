package member

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/domain"
)

// Store is the roster backend behind the cache tiers.
type Store interface {
	FindByDisplayName(ctx context.Context, name string) (*domain.Member, error)
	FindByUsername(ctx context.Context, username string) (*domain.Member, error)
	FindByAlias(ctx context.Context, alias string) (*domain.Member, error)
	GetAllMembers(ctx context.Context) ([]*domain.Member, error)
}

// Cache provides tiered member lookups:
// Tier 1: in-memory sync.Map
// Tier 2: Redis (optional, shared across instances)
// Tier 3: Postgres roster (source of truth)
type Cache struct {
	store  Store
	redis  *redis.Client
	logger *zap.Logger

	byDisplayName sync.Map // map[string]*domain.Member
	byID          sync.Map // map[string]*domain.Member

	redisTTL time.Duration
}

type CacheConfig struct {
	RedisTTL time.Duration
	WarmUp   bool // load the whole roster into memory on startup
}

func NewCache(store Store, redisClient *redis.Client, logger *zap.Logger, cfg CacheConfig) (*Cache, error) {
	if cfg.RedisTTL == 0 {
		cfg.RedisTTL = constants.CacheTTL.Member
	}

	cache := &Cache{
		store:    store,
		redis:    redisClient,
		logger:   logger,
		redisTTL: cfg.RedisTTL,
	}

	if cfg.WarmUp {
		if err := cache.WarmUp(context.Background()); err != nil {
			logger.Warn("Failed to warm up member cache", zap.Error(err))
		}
	}

	return cache, nil
}

// WarmUp loads the full roster into the in-memory tier.
func (c *Cache) WarmUp(ctx context.Context) error {
	members, err := c.store.GetAllMembers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	for _, member := range members {
		c.byDisplayName.Store(member.DisplayName, member)
		c.byID.Store(member.ID, member)
	}

	c.logger.Info("Member cache warmed up",
		zap.Int("total_members", len(members)),
	)

	return nil
}

// GetByDisplayName retrieves a member through the cache tiers.
func (c *Cache) GetByDisplayName(ctx context.Context, name string) (*domain.Member, error) {
	if val, ok := c.byDisplayName.Load(name); ok {
		return val.(*domain.Member), nil
	}

	if c.redis != nil {
		cacheKey := fmt.Sprintf("member:display:%s", name)
		data, err := c.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var member domain.Member
			if err := json.Unmarshal(data, &member); err == nil {
				c.cacheInMemory(&member)
				return &member, nil
			}
		}
	}

	member, err := c.store.FindByDisplayName(ctx, name)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, nil
	}

	c.cacheMember(ctx, member)
	return member, nil
}

// ResolveDisplayName maps a display name printed by Mudae to a stable member
// ID. It falls back to username and alias lookups; an empty ID with a nil
// error means the name is unknown to the roster.
func (c *Cache) ResolveDisplayName(ctx context.Context, name string) (string, error) {
	member, err := c.GetByDisplayName(ctx, name)
	if err != nil {
		return "", err
	}
	if member == nil {
		member, err = c.store.FindByUsername(ctx, name)
		if err != nil {
			return "", err
		}
	}
	if member == nil {
		member, err = c.store.FindByAlias(ctx, name)
		if err != nil {
			return "", err
		}
	}
	if member == nil {
		return "", nil
	}

	c.cacheMember(ctx, member)
	return member.ID, nil
}

func (c *Cache) cacheInMemory(member *domain.Member) {
	c.byDisplayName.Store(member.DisplayName, member)
	c.byID.Store(member.ID, member)
}

func (c *Cache) cacheMember(ctx context.Context, member *domain.Member) {
	c.cacheInMemory(member)

	if c.redis != nil {
		data, err := json.Marshal(member)
		if err != nil {
			c.logger.Warn("Failed to marshal member for cache", zap.Error(err))
			return
		}
		c.redis.Set(ctx, fmt.Sprintf("member:display:%s", member.DisplayName), data, c.redisTTL)
		c.redis.Set(ctx, fmt.Sprintf("member:id:%s", member.ID), data, c.redisTTL)
	}
}

// InvalidateAll clears every tier; used after a roster re-sync.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	c.byDisplayName.Range(func(key, _ any) bool {
		c.byDisplayName.Delete(key)
		return true
	})
	c.byID.Range(func(key, _ any) bool {
		c.byID.Delete(key)
		return true
	})

	if c.redis != nil {
		iter := c.redis.Scan(ctx, 0, "member:*", 0).Iterator()
		for iter.Next(ctx) {
			c.redis.Del(ctx, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to invalidate redis cache: %w", err)
		}
	}

	c.logger.Info("Member cache invalidated")
	return nil
}
