package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-engine/internal/application/ports"
)

// IdempotencyStore claves de idempotencia en proceso. Sin expiración: solo para tests
// y despliegues de una instancia sin Redis.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]*ports.StoredResponse // nil = en curso
}

// NewIdempotencyStore crea un store vacío.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]*ports.StoredResponse)}
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

func (s *IdempotencyStore) Reserve(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.keys[key]
	if !ok {
		s.keys[key] = nil
		return nil, nil
	}
	if stored == nil {
		return nil, ports.ErrRequestInFlight
	}
	cp := *stored
	return &cp, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, resp ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := append([]byte(nil), resp.Body...)
	s.keys[key] = &ports.StoredResponse{Status: resp.Status, Body: body}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
