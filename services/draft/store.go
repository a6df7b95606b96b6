// Package draft holds the in-progress quote of one wizard session: the
// draft itself, its derived price, the current step and every saved quote.
// The store is persisted to a Storage after each committed change and only
// exposes its contents once it has been hydrated from that storage.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quoteforge/models"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
)

const persistTimeout = 5 * time.Second

type Store struct {
	mu      sync.Mutex
	storage Storage
	catalog *pricing.Catalog
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	hydrated   bool
	memoryOnly bool
	warnings   []string

	currentStep models.StepID
	activeID    string
	draft       models.QuoteDraft
	price       float64
	saved       map[string]models.PricedQuote
}

type Option func(*Store)

func WithCatalog(c *pricing.Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns an unhydrated store. Until Hydrate runs, Snapshot reports the
// empty placeholder state and mutations fail with ErrNotHydrated.
func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:     storage,
		catalog:     pricing.Default(),
		logger:      zap.NewNop(),
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		currentStep: models.FirstStep,
		saved:       make(map[string]models.PricedQuote),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate reads durable storage and swaps the loaded state in. It runs at
// most once; it reports whether this call did the hydration. Storage
// failures never abort hydration: the store continues in memory only.
func (s *Store) Hydrate(ctx context.Context) bool {
	var (
		data    []byte
		loadErr error
	)
	if s.storage != nil {
		data, loadErr = s.storage.Load(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return false
	}

	switch {
	case loadErr != nil:
		s.logger.Warn("Draft storage unavailable; continuing in memory", zap.Error(loadErr))
		s.degradeLocked()
	case data != nil:
		doc, err := decodeDocument(data)
		if err != nil {
			s.logger.Warn("Stored draft is partly unreadable; using what could be decoded", zap.Error(err))
		}
		s.currentStep = models.ClampStep(doc.CurrentStep)
		s.activeID = doc.CurrentQuote.ID
		s.draft = doc.CurrentQuote.Draft
		for id, q := range doc.SavedQuotes {
			s.saved[id] = q
		}
	}
	s.price = s.catalog.ComputePrice(s.draft)
	s.hydrated = true
	s.logger.Debug("Draft store hydrated",
		zap.Int("currentStep", int(s.currentStep)),
		zap.String("activeQuoteID", s.activeID),
		zap.Int("savedQuotes", len(s.saved)),
		zap.Float64("estimatedPrice", s.price),
	)
	return true
}

func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// UpdateQuoteData merges patch into the active draft on behalf of step and
// recomputes the estimate before returning it. A patch built for another
// step is a contract violation and is rejected with steps.ErrFieldNotOwned.
func (s *Store) UpdateQuoteData(step models.StepID, patch steps.Patch) (float64, error) {
	if patch == nil {
		return 0, fmt.Errorf("nil patch for step %d", step)
	}
	if patch.Step() != step {
		return 0, fmt.Errorf("%w: step %d wrote fields of step %d", steps.ErrFieldNotOwned, step, patch.Step())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return 0, ErrNotHydrated
	}

	next := s.draft.Clone()
	patch.Apply(&next)
	next.Normalize()

	s.draft = next
	s.price = s.catalog.ComputePrice(next)
	s.persistLocked()
	return s.price, nil
}

// SaveQuote stores the active draft as a PricedQuote. The first save
// issues the id; later saves refresh draft, price and UpdatedAt only.
func (s *Store) SaveQuote() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return "", ErrNotHydrated
	}

	now := s.now()
	if s.activeID == "" {
		s.activeID = s.newID()
	}
	rec, exists := s.saved[s.activeID]
	if exists && rec.IsSubmitted() {
		return rec.ID, nil
	}
	if !exists {
		rec = models.PricedQuote{
			ID:        s.activeID,
			Status:    models.QuoteStatusDraft,
			CreatedAt: now,
		}
	}
	rec.Draft = s.draft.Clone()
	rec.EstimatedPrice = s.price
	rec.UpdatedAt = now
	s.saved[rec.ID] = rec

	s.persistLocked()
	return rec.ID, nil
}

// SubmitQuote marks quote id as submitted. Submitting an already submitted
// quote changes nothing. When id is the active quote, the active draft is
// cleared and the wizard returns to the first step.
func (s *Store) SubmitQuote(id string) (models.PricedQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return models.PricedQuote{}, ErrNotHydrated
	}

	rec, ok := s.saved[id]
	if !ok {
		return models.PricedQuote{}, fmt.Errorf("%w: %s", ErrUnknownQuote, id)
	}
	if rec.IsSubmitted() {
		return rec, nil
	}

	now := s.now()
	rec.Status = models.QuoteStatusSubmitted
	rec.SubmittedAt = &now
	rec.UpdatedAt = now
	s.saved[id] = rec

	if id == s.activeID {
		s.activeID = ""
		s.draft = models.QuoteDraft{}
		s.price = 0
		s.currentStep = models.FirstStep
	}
	s.persistLocked()
	return rec, nil
}

// SetCurrentStep moves the wizard to n, clamped into the valid range.
func (s *Store) SetCurrentStep(n int) (models.StepID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return s.currentStep, ErrNotHydrated
	}
	step := models.ClampStep(n)
	if step == s.currentStep {
		return step, nil
	}
	s.currentStep = step
	s.persistLocked()
	return step, nil
}

func (s *Store) CurrentStep() models.StepID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return models.FirstStep
	}
	return s.currentStep
}

// Draft returns a copy of the active draft; ok is false before hydration.
func (s *Store) Draft() (d models.QuoteDraft, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return models.QuoteDraft{}, false
	}
	return s.draft.Clone(), true
}

func (s *Store) EstimatedPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return 0
	}
	return s.price
}

func (s *Store) ActiveQuoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) Quote(id string) (models.PricedQuote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.saved[id]
	if ok {
		q.Draft = q.Draft.Clone()
	}
	return q, ok
}

// SavedQuotes lists saved and submitted quotes, oldest first.
func (s *Store) SavedQuotes() []models.PricedQuote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PricedQuote, 0, len(s.saved))
	for _, q := range s.saved {
		q.Draft = q.Draft.Clone()
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Warnings returns non-blocking problems worth showing to the user.
func (s *Store) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

// MemoryOnly reports whether persistence has been given up for this process.
func (s *Store) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryOnly
}

// Snapshot is a consistent read of the store for rendering.
type Snapshot struct {
	Hydrated       bool               `json:"hasHydrated"`
	CurrentStep    models.StepID      `json:"currentStep"`
	ActiveQuoteID  string             `json:"activeQuoteId,omitempty"`
	Draft          *models.QuoteDraft `json:"draft,omitempty"`
	DraftEmpty     bool               `json:"draftEmpty"`
	EstimatedPrice float64            `json:"estimatedPrice"`
	Breakdown      *pricing.Breakdown `json:"breakdown,omitempty"`
	LastSavedAt    *time.Time         `json:"lastSavedAt,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// Snapshot returns the neutral placeholder until the store is hydrated, so
// nothing derived from stored data can be rendered before then.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		return Snapshot{CurrentStep: models.FirstStep, DraftEmpty: true}
	}
	d := s.draft.Clone()
	b := s.catalog.Estimate(d)
	snap := Snapshot{
		Hydrated:       true,
		CurrentStep:    s.currentStep,
		ActiveQuoteID:  s.activeID,
		Draft:          &d,
		DraftEmpty:     d.IsEmpty(),
		EstimatedPrice: s.price,
		Breakdown:      &b,
		Warnings:       append([]string(nil), s.warnings...),
	}
	if rec, ok := s.saved[s.activeID]; ok {
		t := rec.UpdatedAt
		snap.LastSavedAt = &t
	}
	return snap
}

func (s *Store) persistLocked() {
	if s.memoryOnly || s.storage == nil {
		return
	}
	doc := document{
		CurrentStep:  int(s.currentStep),
		CurrentQuote: activeQuote{ID: s.activeID, Draft: s.draft},
		SavedQuotes:  s.saved,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("Failed to encode draft document", zap.Error(err))
		s.degradeLocked()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.storage.Save(ctx, data); err != nil {
		s.logger.Warn("Failed to persist draft; continuing in memory", zap.Error(err))
		s.degradeLocked()
	}
}

func (s *Store) degradeLocked() {
	if s.memoryOnly {
		return
	}
	s.memoryOnly = true
	s.warnings = append(s.warnings, persistenceWarning)
}
