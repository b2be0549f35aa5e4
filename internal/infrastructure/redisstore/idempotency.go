package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-engine/internal/application/ports"
)

const (
	keyPrefix     = "inventory-engine:idem:"
	pendingMarker = "pending"
	// pendingTTL libera la clave si el proceso muere antes de completar la petición.
	pendingTTL = 30 * time.Second
)

// IdempotencyStore implementa ports.IdempotencyStore sobre Redis (SET NX + TTL).
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewIdempotencyStore construye el store. ttl es el tiempo que se recuerda una respuesta completada.
func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (*ports.StoredResponse, error) {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, pendingMarker, pendingTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx: %w", err)
	}
	if ok {
		return nil, nil
	}
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// expiró entre SETNX y GET: se trata como en curso y el cliente reintenta
		return nil, ports.ErrRequestInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	if string(raw) == pendingMarker {
		return nil, ports.ErrRequestInFlight
	}
	var stored ports.StoredResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("respuesta guardada corrupta: %w", err)
	}
	return &stored, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp ports.StoredResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
