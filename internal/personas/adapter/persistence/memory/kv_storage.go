package memory

import (
	"context"
	"sync"

	apperrors "gestion-personas/internal/shared/errors"
)

// KVStorage keeps values in process memory. Contents are lost on exit.
type KVStorage struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewKVStorage creates an empty in-memory storage
func NewKVStorage() *KVStorage {
	return &KVStorage{data: make(map[string][]byte)}
}

// Get implements repository.KeyValueStorage
func (s *KVStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, apperrors.ErrStorageClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements repository.KeyValueStorage
func (s *KVStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrStorageClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// Ping implements repository.KeyValueStorage
func (s *KVStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return apperrors.ErrStorageClosed
	}
	return nil
}

// Close implements repository.KeyValueStorage
func (s *KVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
