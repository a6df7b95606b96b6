package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quoteforge/services/draft"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
)

var ErrUnknownSession = errors.New("wizard session not found")

// StorageFactory returns the durable storage backing one session.
type StorageFactory func(sessionID string) draft.Storage

// SessionLookup reports whether a session has a stored draft that can be
// resumed after its in-memory state is gone.
type SessionLookup func(ctx context.Context, sessionID string) (bool, error)

// Session pairs a session id with its controller.
type Session struct {
	ID         string
	Controller *Controller

	stopAutosave func()
}

// Registry keeps the live wizard sessions of a server process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	storage   StorageFactory
	lookup    SessionLookup
	catalog   *pricing.Catalog
	steps     *steps.Registry
	submitter Submitter
	autosaver *Autosaver
	ctrlOpts  []ControllerOption
	logger    *zap.Logger
}

type RegistryConfig struct {
	Storage   StorageFactory
	Lookup    SessionLookup
	Catalog   *pricing.Catalog
	Submitter Submitter
	// Autosaver is optional; sessions are not autosaved without it.
	Autosaver  *Autosaver
	Controller []ControllerOption
	Logger     *zap.Logger
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Catalog == nil {
		cfg.Catalog = pricing.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Storage == nil {
		cfg.Storage = func(string) draft.Storage { return draft.NewMemoryStorage(nil) }
	}
	return &Registry{
		sessions:  make(map[string]*Session),
		storage:   cfg.Storage,
		lookup:    cfg.Lookup,
		catalog:   cfg.Catalog,
		steps:     steps.NewRegistry(cfg.Catalog),
		submitter: cfg.Submitter,
		autosaver: cfg.Autosaver,
		ctrlOpts:  cfg.Controller,
		logger:    cfg.Logger,
	}
}

// Create starts a new session with an empty draft.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	return r.open(ctx, uuid.New().String())
}

// Get returns a live session, resuming it from storage when the process no
// longer holds it in memory.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if ok {
		return s, nil
	}
	if r.lookup == nil {
		return nil, ErrUnknownSession
	}
	found, err := r.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnknownSession
	}
	r.logger.Info("Resuming wizard session from storage", zap.String("sessionID", sessionID))
	return r.open(ctx, sessionID)
}

// Close ends a session: autosave stops and the in-memory state is dropped.
// The stored draft is left in place.
func (r *Registry) Close(sessionID string) error {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	if s.stopAutosave != nil {
		s.stopAutosave()
	}
	r.logger.Info("Wizard session closed", zap.String("sessionID", sessionID))
	return nil
}

// CloseAll ends every live session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		_ = r.Close(id)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// open hydrates a session without holding the registry lock. If another
// caller registered the same id in the meantime, that session is returned
// and the one built here is dropped before autosave is scheduled.
func (r *Registry) open(ctx context.Context, sessionID string) (*Session, error) {
	logger := r.logger.With(zap.String("sessionID", sessionID))
	store := draft.New(r.storage(sessionID),
		draft.WithCatalog(r.catalog),
		draft.WithLogger(logger),
	)
	store.Hydrate(ctx)

	opts := append([]ControllerOption{WithControllerLogger(logger)}, r.ctrlOpts...)
	s := &Session{
		ID:         sessionID,
		Controller: NewController(store, r.steps, r.submitter, opts...),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[sessionID]; ok {
		return existing, nil
	}
	if r.autosaver != nil {
		cancel, err := r.autosaver.Schedule(sessionID, s.Controller)
		if err != nil {
			return nil, fmt.Errorf("failed to open session %s: %w", sessionID, err)
		}
		s.stopAutosave = cancel
	}
	r.sessions[sessionID] = s
	return s, nil
}
