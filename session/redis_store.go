package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "gym:session:"

// RedisStore keeps one JSON record per session under a key that expires
// with it. Instances sharing the Redis see the same sign-ins.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

func redisKey(id string) string {
	return redisPrefix + id
}

func (r *RedisStore) Put(ctx context.Context, s Session) error {
	now := r.now()
	if err := s.validate(now); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encoding %s: %w", s.ID, err)
	}

	err = r.client.Set(ctx, redisKey(s.ID), data, s.ExpiresAt.Sub(now)).Err()
	if err != nil {
		return fmt.Errorf("session: storing %s: %w", s.ID, err)
	}
	return nil
}

// Get also drops a record whose expiry passed before Redis evicted its key,
// since clocks of instances sharing the Redis drift apart.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: decoding %s: %w", id, err)
	}

	if !s.live(r.now()) {
		if err := r.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("session: deleting %s: %w", id, err)
	}
	return nil
}
