package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"gadgetshelf/internal/productlist"
)

const keyPrefix = "gadgetshelf:session:"

// Redis shares session state between instances. Saving refreshes the TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Load(ctx context.Context, sid string) (productlist.State, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return productlist.State{}, false, nil
	}
	if err != nil {
		return productlist.State{}, false, fmt.Errorf("redis get session: %w", err)
	}
	var st productlist.State
	if err := sonic.Unmarshal(data, &st); err != nil {
		return productlist.State{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return st, true, nil
}

func (s *Redis) Save(ctx context.Context, sid string, st productlist.State) error {
	data, err := sonic.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sid, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
