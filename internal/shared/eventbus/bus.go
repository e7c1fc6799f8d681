package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gestion-personas/internal/shared/logger"

	"github.com/google/uuid"
)

// Event represents a generic event
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// SubscriptionID identifies a single registered handler
type SubscriptionID string

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Subscribe(eventType string, handler Handler) SubscriptionID
	Unsubscribe(id SubscriptionID) bool
	Publish(ctx context.Context, event Event) error
	GetSubscriberCount(eventType string) int
}

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// EventBus is an in-memory, ordered event bus
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	logger   logger.Logger
	config   BusConfig
}

// BusConfig holds configuration for the event bus
type BusConfig struct {
	AsyncProcessing bool
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultBusConfig returns default configuration
func DefaultBusConfig() BusConfig {
	return BusConfig{
		AsyncProcessing: false,
		MaxRetries:      0,
		RetryDelay:      100 * time.Millisecond,
	}
}

// NewEventBus creates a new event bus instance
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithConfig(log, DefaultBusConfig())
}

// NewEventBusWithConfig creates a new event bus with custom configuration
func NewEventBusWithConfig(log logger.Logger, config BusConfig) *EventBus {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &EventBus{
		handlers: make(map[string][]subscription),
		logger:   log,
		config:   config,
	}
}

// Subscribe adds a handler for a specific event type and returns its id
func (eb *EventBus) Subscribe(eventType string, handler Handler) SubscriptionID {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := SubscriptionID(uuid.NewString())
	eb.handlers[eventType] = append(eb.handlers[eventType], subscription{id: id, handler: handler})
	eb.logger.Debugf("Subscribed handler %s for event type: %s", id, eventType)
	return id
}

// Unsubscribe removes a single handler. It reports whether the id was registered.
func (eb *EventBus) Unsubscribe(id SubscriptionID) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for eventType, subs := range eb.handlers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			rest := make([]subscription, 0, len(subs)-1)
			rest = append(rest, subs[:i]...)
			rest = append(rest, subs[i+1:]...)
			if len(rest) == 0 {
				delete(eb.handlers, eventType)
			} else {
				eb.handlers[eventType] = rest
			}
			eb.logger.Debugf("Unsubscribed handler %s from event type: %s", id, eventType)
			return true
		}
	}
	return false
}

// Publish sends an event to all registered handlers
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	subs := eb.handlers[event.Type()]
	eb.mu.RUnlock()

	if len(subs) == 0 {
		eb.logger.Debugf("No handlers found for event type: %s", event.Type())
		return nil
	}

	eb.logger.Debugf("Publishing event type: %s to %d handlers", event.Type(), len(subs))

	if eb.config.AsyncProcessing {
		return eb.publishAsync(ctx, event, subs)
	}
	return eb.publishSync(ctx, event, subs)
}

// publishSync runs every handler in registration order; a failing handler does not
// stop the remaining ones.
func (eb *EventBus) publishSync(ctx context.Context, event Event, subs []subscription) error {
	var firstErr error
	for _, sub := range subs {
		if err := eb.executeHandler(ctx, event, sub); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (eb *EventBus) publishAsync(ctx context.Context, event Event, subs []subscription) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(subs))

	for _, sub := range subs {
		wg.Add(1)
		go func(s subscription) {
			defer wg.Done()
			if err := eb.executeHandler(ctx, event, s); err != nil {
				errCh <- err
			}
		}(sub)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// executeHandler executes a handler with retry logic
func (eb *EventBus) executeHandler(ctx context.Context, event Event, sub subscription) error {
	var lastErr error

	for attempt := 0; attempt <= eb.config.MaxRetries; attempt++ {
		if attempt > 0 {
			eb.logger.Warnf("Retrying handler %s for event %s (attempt %d/%d)",
				sub.id, event.Type(), attempt+1, eb.config.MaxRetries+1)
			time.Sleep(eb.config.RetryDelay)
		}

		if err := sub.handler(ctx, event); err != nil {
			lastErr = err
			eb.logger.Errorf("Handler %s failed for event %s: %v", sub.id, event.Type(), err)
			continue
		}
		return nil
	}

	return fmt.Errorf("handler failed after %d attempts: %w", eb.config.MaxRetries+1, lastErr)
}

// GetSubscriberCount returns the number of handlers for an event type
func (eb *EventBus) GetSubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewBasicEventWithSource creates a new basic event with source
func NewBasicEventWithSource(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
		source:    source,
	}
}

func (e *BasicEvent) Type() string {
	return e.eventType
}

func (e *BasicEvent) Data() interface{} {
	return e.data
}

func (e *BasicEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *BasicEvent) Source() string {
	return e.source
}

// EventTypeCollectionsChanged is published after every in-memory replacement
const EventTypeCollectionsChanged = "collections.changed"
