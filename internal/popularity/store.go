// Package popularity keeps a per-property favorite count fed by favorite events.
package popularity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the sorted set holding favorite counts by property id
const DefaultKey = "property:favorites:popularity"

// Entry is one property with its favorite count
type Entry struct {
	PropertyID uint  `json:"propertyId"`
	Favorites  int64 `json:"favorites"`
}

// Store keeps favorite counts per property
type Store interface {
	Increment(ctx context.Context, propertyID uint, delta int64) (int64, error)
	Score(ctx context.Context, propertyID uint) (int64, error)
	Top(ctx context.Context, n int) ([]Entry, error)
}

// RedisStore keeps the counts in a Redis sorted set
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

func member(propertyID uint) string {
	return strconv.FormatUint(uint64(propertyID), 10)
}

// Increment adds delta to the property's count. Members whose count drops to zero are removed
// in the same transaction.
func (s *RedisStore) Increment(ctx context.Context, propertyID uint, delta int64) (int64, error) {
	var incr *redis.FloatCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.ZIncrBy(ctx, s.key, float64(delta), member(propertyID))
		pipe.ZRemRangeByScore(ctx, s.key, "-inf", "0")
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update popularity: %w", err)
	}

	if score := incr.Val(); score > 0 {
		return int64(score), nil
	}
	return 0, nil
}

func (s *RedisStore) Score(ctx context.Context, propertyID uint) (int64, error) {
	score, err := s.client.ZScore(ctx, s.key, member(propertyID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read popularity: %w", err)
	}
	return int64(score), nil
}

// Top returns the n most favorited properties, highest first
func (s *RedisStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}

	results, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read popularity ranking: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{PropertyID: uint(id), Favorites: int64(z.Score)})
	}
	return entries, nil
}
