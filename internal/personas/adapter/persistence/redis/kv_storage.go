package redis

import (
	"context"
	"errors"
	"sync/atomic"

	apperrors "gestion-personas/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

// KVStorage keeps each key as a plain redis string, optionally namespaced
// with a prefix so several installations can share one server.
type KVStorage struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

// NewKVStorage creates a storage over client. The storage owns the client
// and closes it on Close.
func NewKVStorage(client *redis.Client, prefix string) *KVStorage {
	return &KVStorage{client: client, prefix: prefix}
}

func (s *KVStorage) key(key string) string {
	return s.prefix + key
}

// Get implements repository.KeyValueStorage
func (s *KVStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, apperrors.ErrStorageClosed
	}
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set implements repository.KeyValueStorage
func (s *KVStorage) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return apperrors.ErrStorageClosed
	}
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

// Ping implements repository.KeyValueStorage
func (s *KVStorage) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return apperrors.ErrStorageClosed
	}
	return s.client.Ping(ctx).Err()
}

// Close implements repository.KeyValueStorage
func (s *KVStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.client.Close()
}
