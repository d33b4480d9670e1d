package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with a sliding TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func key(token string) string {
	return keyPrefix + token
}

func (s RedisStore) Save(ctx context.Context, token string, data Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, key(token), raw, s.TTL).Err()
}

func (s RedisStore) Get(ctx context.Context, token string) (Data, error) {
	raw, err := s.Client.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Data{}, ErrNotFound
	}
	if err != nil {
		return Data{}, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, err
	}
	if s.TTL > 0 {
		if err := s.Client.Expire(ctx, key(token), s.TTL).Err(); err != nil {
			return Data{}, err
		}
	}
	return data, nil
}

// Delete succeeds when the key is already gone.
func (s RedisStore) Delete(ctx context.Context, token string) error {
	err := s.Client.Del(ctx, key(token)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
