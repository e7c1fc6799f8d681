package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/domain/repository"
	apperrors "gestion-personas/internal/shared/errors"
	"gestion-personas/internal/shared/eventbus"
	"gestion-personas/internal/shared/logger"
)

const (
	// DefaultPersonsKey and DefaultFilesKey are the storage keys of the two collections
	DefaultPersonsKey = "PERSONS_LIST"
	DefaultFilesKey   = "FILES_LIST"

	defaultWriteTimeout = 5 * time.Second

	storeEventSource = "store"
)

// StoreConfig configures a Store
type StoreConfig struct {
	PersonsKey   string
	FilesKey     string
	WriteTimeout time.Duration
}

// DefaultStoreConfig returns the default store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		PersonsKey:   DefaultPersonsKey,
		FilesKey:     DefaultFilesKey,
		WriteTimeout: defaultWriteTimeout,
	}
}

func (c StoreConfig) withDefaults() StoreConfig {
	def := DefaultStoreConfig()
	if c.PersonsKey == "" {
		c.PersonsKey = def.PersonsKey
	}
	if c.FilesKey == "" {
		c.FilesKey = def.FilesKey
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	return c
}

// WriteStats counts completed durable writes
type WriteStats struct {
	Succeeded uint64 `json:"succeeded"`
	Failed    uint64 `json:"failed"`
}

// ChangeHandler receives a notification after every replacement.
// Handlers run on the replacing goroutine once the store lock is released, so
// events arrive in Version order only while replacements are serialized, as
// the usecase does. Concurrent direct callers should order by Snapshot.Version.
type ChangeHandler func(ctx context.Context, event model.ChangeEvent)

type pendingWrite struct {
	key     string
	payload []byte
}

// pendingWrites holds the latest unwritten payload per key. Every write
// replaces a whole collection, so an older payload for the same key is
// superseded. A requeued key moves to the back, keeping the keys ordered by
// their latest replacement.
type pendingWrites struct {
	writes []pendingWrite
}

func (p *pendingWrites) put(key string, payload []byte) {
	for i, w := range p.writes {
		if w.key == key {
			p.writes = append(p.writes[:i], p.writes[i+1:]...)
			break
		}
	}
	p.writes = append(p.writes, pendingWrite{key: key, payload: payload})
}

func (p *pendingWrites) take() []pendingWrite {
	batch := p.writes
	p.writes = nil
	return batch
}

// Store is the single source of truth for both collections.
// Replacements are applied to memory synchronously; the durable mirror is
// written by one background writer in replacement order, with superseded
// payloads for the same key coalesced. A slow backend never blocks a
// replacement or a read. A failed write is logged and never rolls the
// in-memory state back.
type Store struct {
	mu      sync.RWMutex
	persons []model.Person
	files   model.FileStore
	version uint64

	storage repository.KeyValueStorage
	bus     eventbus.EventBusInterface
	log     logger.Logger
	cfg     StoreConfig

	pendMu   sync.Mutex
	pending  pendingWrites
	queued   uint64
	written  uint64
	progress chan struct{}
	closed   bool
	wakeup   chan struct{}
	done     chan struct{}

	succeeded atomic.Uint64
	failed    atomic.Uint64
}

// NewStore creates a Store over storage and starts its writer.
// A nil bus gets a private in-memory bus.
func NewStore(storage repository.KeyValueStorage, bus eventbus.EventBusInterface, log logger.Logger, cfg StoreConfig) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if bus == nil {
		bus = eventbus.NewEventBus(log)
	}
	cfg = cfg.withDefaults()

	s := &Store{
		persons:  []model.Person{},
		files:    model.FileStore{},
		storage:  storage,
		bus:      bus,
		log:      log.WithComponent("store"),
		cfg:      cfg,
		progress: make(chan struct{}),
		wakeup:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go s.runWriter()
	return s
}

// Load reads both collections from storage and makes them current.
// Absent keys, read failures and malformed content all yield an empty
// collection for that key. File entries whose owner is not among the loaded
// persons are dropped and the corrected mapping is written back.
func (s *Store) Load(ctx context.Context) ([]model.Person, model.FileStore) {
	var persons []model.Person
	if !s.read(ctx, s.cfg.PersonsKey, &persons) || persons == nil {
		persons = []model.Person{}
	}

	var files model.FileStore
	if !s.read(ctx, s.cfg.FilesKey, &files) || files == nil {
		files = model.FileStore{}
	}

	pruned := pruneOrphans(persons, files)
	if len(pruned) > 0 {
		s.log.WithFields(map[string]interface{}{
			"key":    s.cfg.FilesKey,
			"owners": pruned,
		}).Warn("Dropped file collections of persons that no longer exist")
	}

	s.mu.Lock()
	s.persons = persons
	s.files = files
	s.version++
	if len(pruned) > 0 {
		s.enqueueLocked(s.cfg.FilesKey, files)
	}
	event := s.changeEventLocked(model.CollectionPersons, model.CollectionFiles)
	s.mu.Unlock()

	s.log.Infof("Loaded %d persons and %d file collections", len(persons), len(files))
	s.publish(ctx, event)

	return model.ClonePersons(persons), files.Clone()
}

// read decodes key into dst. It reports false when nothing usable was stored.
func (s *Store) read(ctx context.Context, key string, dst interface{}) bool {
	raw, found, err := s.storage.Get(ctx, key)
	if err != nil {
		s.log.Error(apperrors.NewPersistenceReadError(key, err).Error())
		return false
	}
	if !found || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Error(apperrors.NewPersistenceReadError(key, err).WithCode("malformed").Error())
		return false
	}
	return true
}

func pruneOrphans(persons []model.Person, files model.FileStore) []string {
	var pruned []string
	for owner := range files {
		if model.FindPerson(persons, owner) < 0 {
			delete(files, owner)
			pruned = append(pruned, owner)
		}
	}
	return pruned
}

// ReplacePersons makes next the current person collection and queues its write
func (s *Store) ReplacePersons(ctx context.Context, next []model.Person) {
	next = model.ClonePersons(next)

	s.mu.Lock()
	s.persons = next
	s.version++
	s.enqueueLocked(s.cfg.PersonsKey, next)
	event := s.changeEventLocked(model.CollectionPersons)
	s.mu.Unlock()

	s.publish(ctx, event)
}

// ReplaceFiles makes next the current file mapping and queues its write
func (s *Store) ReplaceFiles(ctx context.Context, next model.FileStore) {
	next = next.Clone()

	s.mu.Lock()
	s.files = next
	s.version++
	s.enqueueLocked(s.cfg.FilesKey, next)
	event := s.changeEventLocked(model.CollectionFiles)
	s.mu.Unlock()

	s.publish(ctx, event)
}

// ReplaceAll swaps both collections in one step. The file mapping is queued
// before the persons so that an interrupted pair of writes never leaves file
// entries for a person already removed from storage.
func (s *Store) ReplaceAll(ctx context.Context, persons []model.Person, files model.FileStore) {
	persons = model.ClonePersons(persons)
	files = files.Clone()

	s.mu.Lock()
	s.persons = persons
	s.files = files
	s.version++
	s.enqueueLocked(s.cfg.FilesKey, files)
	s.enqueueLocked(s.cfg.PersonsKey, persons)
	event := s.changeEventLocked(model.CollectionPersons, model.CollectionFiles)
	s.mu.Unlock()

	s.publish(ctx, event)
}

// Persons returns a copy of the current person collection
func (s *Store) Persons() []model.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ClonePersons(s.persons)
}

// Files returns a copy of the current file mapping
func (s *Store) Files() model.FileStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files.Clone()
}

// Snapshot returns a copy of both collections
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.Snapshot {
	return model.Snapshot{
		Persons: model.ClonePersons(s.persons),
		Files:   s.files.Clone(),
		Version: s.version,
	}
}

func (s *Store) changeEventLocked(changed ...model.Collection) model.ChangeEvent {
	return model.ChangeEvent{Changed: changed, Snapshot: s.snapshotLocked()}
}

// Subscribe registers handler for change notifications
func (s *Store) Subscribe(handler ChangeHandler) eventbus.SubscriptionID {
	return s.bus.Subscribe(eventbus.EventTypeCollectionsChanged, func(ctx context.Context, event eventbus.Event) error {
		if event.Source() != storeEventSource {
			return nil
		}
		if change, ok := event.Data().(model.ChangeEvent); ok {
			handler(ctx, change)
		}
		return nil
	})
}

// Unsubscribe removes a handler registered with Subscribe
func (s *Store) Unsubscribe(id eventbus.SubscriptionID) bool {
	return s.bus.Unsubscribe(id)
}

func (s *Store) publish(ctx context.Context, event model.ChangeEvent) {
	ev := eventbus.NewBasicEventWithSource(eventbus.EventTypeCollectionsChanged, event, storeEventSource)
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warnf("Change notification failed: %v", err)
	}
}

// enqueueLocked serializes value and records it as the pending write for
// key. Callers hold s.mu so the pending order matches the order of in-memory
// replacements. It never waits on the writer.
func (s *Store) enqueueLocked(key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.failed.Add(1)
		s.log.Error(apperrors.NewPersistenceWriteError(key, err).Error())
		return
	}

	s.pendMu.Lock()
	if s.closed {
		s.pendMu.Unlock()
		s.failed.Add(1)
		s.log.Error(apperrors.NewPersistenceWriteError(key, apperrors.ErrStorageClosed).Error())
		return
	}
	s.pending.put(key, payload)
	s.queued++
	s.pendMu.Unlock()

	s.wake()
}

func (s *Store) wake() {
	select {
	case s.wakeup <- struct{}{}:
	default:
	}
}

func (s *Store) runWriter() {
	defer close(s.done)
	for {
		s.pendMu.Lock()
		batch := s.pending.take()
		seq := s.queued
		closed := s.closed
		s.pendMu.Unlock()

		for _, w := range batch {
			s.write(w)
		}

		if len(batch) > 0 {
			s.pendMu.Lock()
			s.written = seq
			close(s.progress)
			s.progress = make(chan struct{})
			s.pendMu.Unlock()
			continue
		}
		if closed {
			return
		}
		<-s.wakeup
	}
}

func (s *Store) write(w pendingWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.storage.Set(ctx, w.key, w.payload); err != nil {
		s.failed.Add(1)
		s.log.WithFields(map[string]interface{}{"key": w.key}).
			Error(apperrors.NewPersistenceWriteError(w.key, err).Error())
		return
	}
	s.succeeded.Add(1)
	s.log.Debugf("Persisted %s (%d bytes)", w.key, len(w.payload))
}

// Stats returns the durable write counters
func (s *Store) Stats() WriteStats {
	return WriteStats{Succeeded: s.succeeded.Load(), Failed: s.failed.Load()}
}

// Flush blocks until every write queued before the call has completed
func (s *Store) Flush(ctx context.Context) error {
	s.pendMu.Lock()
	target := s.queued
	s.pendMu.Unlock()

	for {
		s.pendMu.Lock()
		if s.written >= target {
			s.pendMu.Unlock()
			return nil
		}
		progress := s.progress
		s.pendMu.Unlock()

		select {
		case <-progress:
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close drains pending writes and stops the writer. Replacements after Close
// still update memory but are no longer persisted.
func (s *Store) Close(ctx context.Context) error {
	s.pendMu.Lock()
	s.closed = true
	s.pendMu.Unlock()
	s.wake()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
