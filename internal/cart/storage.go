package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/redis"
)

// Snapshot is the persisted form of a shopper's cart and wishlist.
type Snapshot struct {
	Items    []Item    `json:"items"`
	Wishlist []Product `json:"wishlist"`
	SavedAt  time.Time `json:"saved_at"`
}

// Storage persists snapshots keyed by owner. Load returns nil, nil when nothing
// has been saved yet.
type Storage interface {
	Load(ctx context.Context, owner string) (*Snapshot, error)
	Save(ctx context.Context, owner string, snap Snapshot) error
}

type cartKV interface {
	redis.KV
	CartKey(shopperID string) string
}

// RedisStorage keeps one JSON snapshot per shopper.
type RedisStorage struct {
	kv  cartKV
	ttl time.Duration
}

// NewRedisStorage builds storage on the shared redis client. A zero ttl keeps
// snapshots until they are overwritten.
func NewRedisStorage(kv cartKV, ttl time.Duration) (*RedisStorage, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{kv: kv, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, owner string) (*Snapshot, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(owner))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &snap, nil
}

func (s *RedisStorage) Save(ctx context.Context, owner string, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(owner), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
