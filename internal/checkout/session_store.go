package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/redis"
)

// ErrCorruptSession is returned by Load when the stored session cannot be
// decoded. Callers may Delete it and start over.
var ErrCorruptSession = errors.New("checkout session is corrupt")

// SessionStore persists one checkout session per shopper. Load returns nil, nil
// when the shopper has no session.
type SessionStore interface {
	Load(ctx context.Context, shopperID uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, shopperID uuid.UUID) error
}

type sessionKV interface {
	redis.KV
	CheckoutSessionKey(shopperID string) string
}

type redisSessionStore struct {
	kv  sessionKV
	ttl time.Duration
}

// NewRedisSessionStore keeps sessions as JSON with a sliding ttl refreshed on
// every save.
func NewRedisSessionStore(kv sessionKV, ttl time.Duration) (SessionStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &redisSessionStore{kv: kv, ttl: ttl}, nil
}

func (s *redisSessionStore) Load(ctx context.Context, shopperID uuid.UUID) (*Session, error) {
	raw, err := s.kv.Get(ctx, s.kv.CheckoutSessionKey(shopperID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return fmt.Errorf("session required")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode checkout session: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CheckoutSessionKey(session.ShopperID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save checkout session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, shopperID uuid.UUID) error {
	if err := s.kv.Del(ctx, s.kv.CheckoutSessionKey(shopperID.String())); err != nil {
		return fmt.Errorf("delete checkout session: %w", err)
	}
	return nil
}
