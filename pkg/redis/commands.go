package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNil is returned by Get when the key does not exist.
var ErrNil = redis.Nil

// IsNil reports whether err is the missing-key sentinel.
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// compareAndDelete removes KEYS[1] only while it still holds ARGV[1].
const compareAndDelete = `if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`

// Get returns the string at key or ErrNil.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.backend == nil {
		return "", errNotConnected
	}
	return c.backend.Get(ctx, key).Result()
}

// Set writes value under key. A zero ttl keeps the key until deleted.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.backend == nil {
		return errNotConnected
	}
	return c.backend.Set(ctx, key, value, ttl).Err()
}

// SetNX writes value only when key is absent and reports whether it did.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.backend == nil {
		return false, errNotConnected
	}
	return c.backend.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.backend == nil {
		return errNotConnected
	}
	if len(keys) == 0 {
		return nil
	}
	return c.backend.Del(ctx, keys...).Err()
}

// DelIfEquals deletes key in one round trip if its value is still expected.
// It reports whether anything was deleted.
func (c *Client) DelIfEquals(ctx context.Context, key, expected string) (bool, error) {
	if c.backend == nil {
		return false, errNotConnected
	}
	n, err := c.backend.Eval(ctx, compareAndDelete, []string{key}, expected).Int64()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
