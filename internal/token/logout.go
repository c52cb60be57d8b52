package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const logoutKeyPrefix = "logout:"

// LogoutStore blacklists access tokens that were logged out before they expired.
type LogoutStore interface {
	Save(ctx context.Context, accessToken string, ttl time.Duration) error
	Exists(ctx context.Context, accessToken string) (bool, error)
}

type redisLogoutStore struct {
	client *redis.Client
}

// NewRedisLogoutStore keeps blacklisted tokens under "logout:<token>" until they would have expired anyway.
func NewRedisLogoutStore(client *redis.Client) LogoutStore {
	return &redisLogoutStore{client: client}
}

func (s *redisLogoutStore) Save(ctx context.Context, accessToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, logoutKeyPrefix+accessToken, "logout", ttl).Err(); err != nil {
		return fmt.Errorf("save logout token: %w", err)
	}
	return nil
}

func (s *redisLogoutStore) Exists(ctx context.Context, accessToken string) (bool, error) {
	err := s.client.Get(ctx, logoutKeyPrefix+accessToken).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup logout token: %w", err)
	}
	return true, nil
}
