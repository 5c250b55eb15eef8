package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m3rciful/carta/core/logger"
)

// RedisConfig locates the Redis server backing the session store.
type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.LogEvent(ctx, logger.Session, slog.LevelInfo, "session.redis.connect",
		slog.String("status", "ok"),
		slog.String("host", cfg.Addr),
	)
	return c, nil
}

// RedisStore keeps sessions as tag strings under carta:session:<chatID>,
// letting Redis expire them.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps client; ttl <= 0 selects DefaultTTL.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(chatID int64) string {
	return "carta:session:" + strconv.FormatInt(chatID, 10)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, chatID int64) (Pending, bool, error) {
	tag, err := s.client.Get(ctx, key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return Pending{}, false, nil
	}
	if err != nil {
		return Pending{}, false, fmt.Errorf("redis get session: %w", err)
	}
	p, err := Decode(tag)
	if err != nil {
		_ = s.client.Del(ctx, key(chatID)).Err()
		return Pending{}, false, err
	}
	if ttl, err := s.client.TTL(ctx, key(chatID)).Result(); err == nil && ttl > 0 {
		p.ExpiresAt = time.Now().Add(ttl)
	}
	return p, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, chatID int64, p Pending) error {
	tag, err := Encode(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(chatID), tag, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, key(chatID)).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}
