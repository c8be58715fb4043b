package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
)

type memoryBackend struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryBackend) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := m.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *memoryBackend) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryBackend) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.Set(ctx, key, value, ttl)
	return redis.NewBoolResult(true, nil)
}

func (m *memoryBackend) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
		delete(m.data, key)
		delete(m.ttls, key)
	}
	return redis.NewIntResult(n, nil)
}

// Eval understands only the compare-and-delete script.
func (m *memoryBackend) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if script != compareAndDelete || len(keys) != 1 || len(args) != 1 {
		return redis.NewCmdResult(nil, fmt.Errorf("unexpected script"))
	}
	if m.data[keys[0]] != args[0] {
		return redis.NewCmdResult(int64(0), nil)
	}
	return redis.NewCmdResult(m.Del(ctx, keys[0]).Val(), nil)
}

func newTestClient() (*Client, *memoryBackend) {
	backend := newMemoryBackend()
	return &Client{backend: backend, Keys: NewKeyspace("")}, backend
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, backend := newTestClient()
	key := client.CartKey("shopper-1")

	require.NoError(t, client.Set(ctx, key, `{"items":[]}`, time.Hour))
	assert.Equal(t, time.Hour, backend.ttls["sb:cart:shopper-1"])

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, got)

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.True(t, IsNil(err))

	assert.NoError(t, client.Del(ctx), "no keys is a no-op")
}

func TestSetNXFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	client, backend := newTestClient()

	ok, err := client.SetNX(ctx, "sb:lock:cron", "owner-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "sb:lock:cron", "owner-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "owner-a", backend.data["sb:lock:cron"])
}

func TestDelIfEquals(t *testing.T) {
	ctx := context.Background()
	client, backend := newTestClient()
	backend.data["sb:lock:cron"] = "owner-a"

	deleted, err := client.DelIfEquals(ctx, "sb:lock:cron", "owner-b")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Contains(t, backend.data, "sb:lock:cron")

	deleted, err = client.DelIfEquals(ctx, "sb:lock:cron", "owner-a")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NotContains(t, backend.data, "sb:lock:cron")
}

func TestZeroClient(t *testing.T) {
	var client Client
	ctx := context.Background()

	assert.ErrorIs(t, client.Set(ctx, "k", "v", 0), errNotConnected)
	assert.ErrorIs(t, client.Ping(ctx), errNotConnected)
	_, err := client.DelIfEquals(ctx, "k", "v")
	assert.ErrorIs(t, err, errNotConnected)
	assert.NoError(t, client.Close())
}

func TestKeyspace(t *testing.T) {
	def := NewKeyspace("  ")
	staging := NewKeyspace("sb-staging:")

	assert.Equal(t, "sb:idempotency:scope:id", def.Idempotency("scope", "id"))
	assert.Equal(t, "sb:idempotency:spaced", def.Idempotency("", " spaced "))
	assert.Equal(t, "sb:checkout:shopper", def.CheckoutSession("shopper"))
	assert.Equal(t, "sb-staging:cart:shopper", staging.Cart("shopper"))
	assert.Equal(t, "sb-staging:lock:cron-worker", staging.Lock("cron-worker"))
	assert.Equal(t, "sb:cart:x", Keyspace{}.Cart("x"))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 3, PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", DB: 5, PoolSize: 4})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB, "url database wins over config")
	assert.Equal(t, 4, opts.PoolSize)

	_, err = optionsFromConfig(config.RedisConfig{URL: "mongodb://nope"})
	assert.Error(t, err)
}
