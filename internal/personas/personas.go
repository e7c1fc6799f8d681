package personas

import (
	"context"
	"fmt"

	httpadapter "gestion-personas/internal/personas/adapter/http"
	"gestion-personas/internal/personas/adapter/picker"
	"gestion-personas/internal/personas/config"
	"gestion-personas/internal/personas/domain/repository"
	"gestion-personas/internal/personas/usecase"
	"gestion-personas/internal/shared/eventbus"
	"gestion-personas/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// PersonasModule holds the assembled personas components
type PersonasModule struct {
	Config    *config.PersonasConfig
	Storage   repository.KeyValueStorage
	Store     *usecase.Store
	Usecase   usecase.PersonasUsecase
	Handler   *httpadapter.HTTPHandler
	WSHandler *httpadapter.WebSocketHandler
	Logger    logger.Logger
}

// NewPersonasModule opens the configured storage, loads both collections and
// wires the usecase and handlers. A nil bus gets a private one.
func NewPersonasModule(ctx context.Context, cfg *config.PersonasConfig, bus eventbus.EventBusInterface, log logger.Logger) (*PersonasModule, error) {
	if log == nil {
		log = logger.NewLogger()
	}
	if cfg == nil {
		cfg = config.DefaultPersonasConfig()
	}
	log.Infof("Initializing personas module with %s storage", cfg.Driver)

	storage, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Driver, err)
	}

	store := usecase.NewStore(storage, bus, log, usecase.StoreConfig{
		PersonsKey:   cfg.Store.PersonsKey,
		FilesKey:     cfg.Store.FilesKey,
		WriteTimeout: cfg.Store.WriteTimeout,
	})
	persons, files := store.Load(ctx)
	log.Infof("Personas module loaded %d persons and %d file collections", len(persons), len(files))

	ops := usecase.NewOperations(usecase.WithDateLayout(cfg.Store.FileDateLayout))
	uc := usecase.NewPersonasUsecase(store, ops, picker.NewGalleryPicker(cfg.MediaDir, log), log)

	return &PersonasModule{
		Config:    cfg,
		Storage:   storage,
		Store:     store,
		Usecase:   uc,
		Handler:   httpadapter.NewHTTPHandler(uc, log),
		WSHandler: httpadapter.NewWebSocketHandler(uc, log),
		Logger:    log,
	}, nil
}

// RegisterRoutes registers the REST and change feed routes
func (m *PersonasModule) RegisterRoutes(router fiber.Router) {
	m.Handler.RegisterRoutes(router)
	m.WSHandler.RegisterRoutes(router)
}

// HealthCheck pings the storage backend
func (m *PersonasModule) HealthCheck(ctx context.Context) error {
	if err := m.Storage.Ping(ctx); err != nil {
		return fmt.Errorf("%s storage health check failed: %w", m.Config.Driver, err)
	}
	return nil
}

// Stop drains pending writes, then closes the storage
func (m *PersonasModule) Stop(ctx context.Context) error {
	if err := m.Store.Close(ctx); err != nil {
		m.Logger.Errorf("Pending writes not drained: %v", err)
		return err
	}
	stats := m.Store.Stats()
	m.Logger.Infof("Store closed after %d writes (%d failed)", stats.Succeeded+stats.Failed, stats.Failed)
	return m.Storage.Close()
}
