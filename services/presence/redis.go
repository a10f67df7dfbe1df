package presence

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	usersKey = "presence:users" // userID -> connID
	connsKey = "presence:conns" // connID -> userID
)

// RedisStore shares presence across API instances through two Redis hashes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, userID, connID string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, usersKey, userID, connID)
		p.HSet(ctx, connsKey, connID, userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("presence: set %s: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (string, bool, error) {
	connID, err := s.client.HGet(ctx, usersKey, userID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("presence: get %s: %w", userID, err)
	}
	return connID, true, nil
}

func (s *RedisStore) Remove(ctx context.Context, userID string) error {
	connID, ok, err := s.Get(ctx, userID)
	if err != nil || !ok {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, usersKey, userID)
		p.HDel(ctx, connsKey, connID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("presence: remove %s: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) RemoveConnection(ctx context.Context, connID string) error {
	userID, err := s.client.HGet(ctx, connsKey, connID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("presence: lookup connection %s: %w", connID, err)
	}

	current, ok, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, connsKey, connID)
		// The user may have reconnected on a newer connection.
		if ok && current == connID {
			p.HDel(ctx, usersKey, userID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("presence: remove connection %s: %w", connID, err)
	}
	return nil
}

func (s *RedisStore) Online(ctx context.Context) ([]string, error) {
	ids, err := s.client.HKeys(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("presence: list online: %w", err)
	}
	return ids, nil
}
