package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"gestion-personas/internal/personas"
	"gestion-personas/internal/personas/config"
	"gestion-personas/internal/shared/eventbus"
	"gestion-personas/internal/shared/logger"
)

// Container represents a dependency injection container with lifecycle management
type Container struct {
	mu       sync.RWMutex
	services map[reflect.Type]interface{}
	// Module instances
	PersonasModule *personas.PersonasModule
	// Shared infrastructure
	EventBus eventbus.EventBusInterface
	// Configuration
	PersonasConfig *config.PersonasConfig
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		services: make(map[reflect.Type]interface{}),
		Logger:   log,
	}
}

// InitializePersonas opens the configured storage, builds the personas module
// and registers its components: *usecase.Store, usecase.PersonasUsecase,
// repository.KeyValueStorage and eventbus.EventBusInterface.
func (c *Container) InitializePersonas(ctx context.Context, cfg *config.PersonasConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PersonasModule != nil {
		return fmt.Errorf("personas module already initialized")
	}
	if c.EventBus == nil {
		c.EventBus = eventbus.NewEventBus(c.Logger)
	}

	module, err := personas.NewPersonasModule(ctx, cfg, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create personas module: %w", err)
	}

	c.PersonasConfig = module.Config
	c.PersonasModule = module

	registerLocked(c, module.Store)
	registerLocked(c, module.Usecase)
	registerLocked(c, module.Storage)
	registerLocked(c, c.EventBus)
	return nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// registerLocked records service under T. Callers hold c.mu.
func registerLocked[T any](c *Container, service T) {
	c.services[typeOf[T]()] = service
}

// Resolve resolves a service by type
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	service, exists := c.services[serviceType]
	if !exists {
		return nil, fmt.Errorf("service of type %v not registered", serviceType)
	}
	return service, nil
}

// GetService is a generic helper for resolving services
func GetService[T any](c *Container) (T, error) {
	var zero T

	service, err := c.Resolve(typeOf[T]())
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// GetPersonasModule returns the personas module instance
func (c *Container) GetPersonasModule() *personas.PersonasModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.PersonasModule
}

// HealthCheck checks the storage backend of every initialized module
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.PersonasModule == nil {
		return fmt.Errorf("personas module not initialized")
	}
	return c.PersonasModule.HealthCheck(ctx)
}

// Cleanup stops the modules and forgets the registered services
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.PersonasModule != nil {
		if stopErr := c.PersonasModule.Stop(ctx); stopErr != nil {
			err = fmt.Errorf("failed to stop personas module: %w", stopErr)
		}
		c.PersonasModule = nil
	}

	c.services = make(map[reflect.Type]interface{})
	return err
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	c.Logger.Info("Closing DI container resources...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("Cleanup errors occurred: %v", err)
		return err
	}

	c.Logger.Info("DI container resources closed")
	return nil
}
