package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Snapshots is the durable key-value storage for session snapshots: one
// serialized User per browser session key, or nothing when logged out.
type Snapshots interface {
	Load(ctx context.Context, key string) (*domain.User, error)
	Save(ctx context.Context, key string, user *domain.User) error
	Clear(ctx context.Context, key string) error
}

type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshots(cfg config.RedisConfig, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// Load returns (nil, nil) when no snapshot exists under the key.
func (s *RedisSnapshots) Load(ctx context.Context, key string) (*domain.User, error) {
	data, err := s.client.Get(ctx, snapshotKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RedisSnapshots) Save(ctx context.Context, key string, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(key), payload, s.ttl).Err()
}

func (s *RedisSnapshots) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, snapshotKey(key)).Err()
}

func snapshotKey(key string) string {
	return "session:user:" + key
}

var _ Snapshots = (*RedisSnapshots)(nil)
