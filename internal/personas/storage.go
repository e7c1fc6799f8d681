package personas

import (
	"context"
	"fmt"

	"gestion-personas/internal/personas/adapter/persistence/memory"
	"gestion-personas/internal/personas/adapter/persistence/mongodb"
	redisstorage "gestion-personas/internal/personas/adapter/persistence/redis"
	"gestion-personas/internal/personas/adapter/persistence/sqlite"
	"gestion-personas/internal/personas/config"
	"gestion-personas/internal/personas/domain/repository"
	apperrors "gestion-personas/internal/shared/errors"
)

// NewStorage opens the key-value backend selected by cfg.Driver
func NewStorage(ctx context.Context, cfg *config.PersonasConfig) (repository.KeyValueStorage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.NewKVStorage(ctx, cfg.SQLite.Path)

	case config.DriverRedis:
		client, err := config.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		storage := redisstorage.NewKVStorage(client, cfg.Redis.KeyPrefix)
		if err := storage.Ping(ctx); err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return storage, nil

	case config.DriverMongoDB:
		return mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Collection)

	case config.DriverMemory:
		return memory.NewKVStorage(), nil

	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDriver, cfg.Driver)
	}
}
