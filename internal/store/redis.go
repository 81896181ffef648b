package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the subset of *redis.Client used by RedisStore.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps records as JSON strings under "<collection>:<id>".
type RedisStore struct {
	client RedisClient
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient dials redis and pings it before returning.
func NewRedisClient(options *redis.Options) (*redis.Client, error) {
	ctx, cancelFunc := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelFunc()

	client := redis.NewClient(options)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("error setting up new redis client: %w", err)
	}

	return client, nil
}

func redisKey(collection, id string) string {
	return collection + ":" + id
}

func (s *RedisStore) Create(ctx context.Context, collection, id string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling record JSON: %w", err)
	}

	ok, err := s.client.SetNX(ctx, redisKey(collection, id), data, 0).Result()
	if err != nil {
		return fmt.Errorf("error writing record to redis: %w", err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, collection, id string, out interface{}) error {
	serializedData, err := s.client.Get(ctx, redisKey(collection, id)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("error getting record from redis: %w", err)
	}

	if err := json.Unmarshal([]byte(serializedData), out); err != nil {
		return fmt.Errorf("error unmarshaling record JSON: %w", err)
	}
	return nil
}
