package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Storage drivers
const (
	DriverSQLite  = "sqlite"
	DriverRedis   = "redis"
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// SQLiteConfig configures the on-device sqlite backend.
type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"data/personas.db" json:"path"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	// URL takes precedence over Addr when set, e.g. redis://:secret@localhost:6379/0
	URL          string `env:"REDIS_URL" json:"-"`
	Addr         string `env:"REDIS_ADDR" envDefault:"localhost:6379" json:"addr"`
	Password     string `env:"REDIS_PASSWORD" json:"-"`
	Database     int    `env:"REDIS_DB" envDefault:"0" json:"db"`
	KeyPrefix    string `env:"REDIS_KEY_PREFIX" json:"key_prefix"`
	MaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"3" json:"max_retries"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10" json:"pool_size"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1" json:"min_idle_conns"`
	EnableTLS    bool   `env:"REDIS_TLS" envDefault:"false" json:"tls"`
}

// MongoDBConfig configures the mongodb backend.
type MongoDBConfig struct {
	URI        string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017" json:"-"`
	Database   string `env:"MONGODB_DATABASE" envDefault:"gestion_personas" json:"database"`
	Collection string `env:"MONGODB_COLLECTION" envDefault:"kv" json:"collection"`
}

// StoreConfig holds the storage keys and the durable write settings.
type StoreConfig struct {
	PersonsKey     string        `env:"STORE_PERSONS_KEY" envDefault:"PERSONS_LIST" json:"persons_key"`
	FilesKey       string        `env:"STORE_FILES_KEY" envDefault:"FILES_LIST" json:"files_key"`
	WriteTimeout   time.Duration `env:"STORE_WRITE_TIMEOUT" envDefault:"5s" json:"write_timeout"`
	FileDateLayout string        `env:"FILE_DATE_LAYOUT" envDefault:"2/1/2006" json:"file_date_layout"`
}

// PersonasConfig holds all configuration for the personas module.
type PersonasConfig struct {
	Driver   string `env:"STORAGE_DRIVER" envDefault:"sqlite" json:"driver"`
	MediaDir string `env:"MEDIA_DIR" envDefault:"media" json:"media_dir"`

	SQLite  SQLiteConfig  `json:"sqlite"`
	Redis   RedisConfig   `json:"redis"`
	MongoDB MongoDBConfig `json:"mongodb"`
	Store   StoreConfig   `json:"store"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
// Nested sections are parsed along with the root struct.
func LoadConfig() (*PersonasConfig, error) {
	cfg := &PersonasConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load personas configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the driver-specific settings.
func (c *PersonasConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("SQLITE_PATH must be set for the sqlite driver")
		}
	case DriverRedis:
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR or REDIS_URL must be set for the redis driver")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be set for the mongodb driver")
		}
		if c.MongoDB.Database == "" || c.MongoDB.Collection == "" {
			return errors.New("MONGODB_DATABASE and MONGODB_COLLECTION must be set for the mongodb driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Driver)
	}
	if c.Store.PersonsKey == "" || c.Store.FilesKey == "" {
		return errors.New("store keys must not be empty")
	}
	if c.Store.PersonsKey == c.Store.FilesKey {
		return errors.New("STORE_PERSONS_KEY and STORE_FILES_KEY must differ")
	}
	return nil
}

// DefaultPersonasConfig returns a PersonasConfig with default values.
func DefaultPersonasConfig() *PersonasConfig {
	return &PersonasConfig{
		Driver:   DriverSQLite,
		MediaDir: "media",
		SQLite:   SQLiteConfig{Path: "data/personas.db"},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			MaxRetries:   3,
			PoolSize:     10,
			MinIdleConns: 1,
		},
		MongoDB: MongoDBConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "gestion_personas",
			Collection: "kv",
		},
		Store: StoreConfig{
			PersonsKey:     "PERSONS_LIST",
			FilesKey:       "FILES_LIST",
			WriteTimeout:   5 * time.Second,
			FileDateLayout: "2/1/2006",
		},
	}
}
