package quotesRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"quoteforge/models"
)

// memoryQuoteRepo keeps records in process. It backs tests and servers
// running without MongoDB.
type memoryQuoteRepo struct {
	mu      sync.Mutex
	records map[string]models.QuoteRecord
	now     func() time.Time
}

func NewMemoryQuoteRepo() QuoteRepository {
	return &memoryQuoteRepo{
		records: make(map[string]models.QuoteRecord),
		now:     time.Now,
	}
}

func (r *memoryQuoteRepo) Upsert(ctx context.Context, rec models.QuoteRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	existing, found := r.records[rec.QuoteID]
	if found {
		rec.SubmittedAt = existing.SubmittedAt
		rec.ReceivedAt = existing.ReceivedAt
		rec.FollowedUpAt = existing.FollowedUpAt
	} else if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = now
	}
	rec.UpdatedAt = now
	r.records[rec.QuoteID] = rec
	return !found, nil
}

func (r *memoryQuoteRepo) GetByID(ctx context.Context, quoteID string) (*models.QuoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[quoteID]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return &rec, nil
}

func (r *memoryQuoteRepo) List(ctx context.Context, limit int64) ([]models.QuoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.QuoteRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.After(out[j].ReceivedAt)
		}
		return out[i].QuoteID < out[j].QuoteID
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryQuoteRepo) MarkFollowedUp(ctx context.Context, quoteID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[quoteID]
	if !ok {
		return ErrQuoteNotFound
	}
	rec.FollowedUpAt = &at
	r.records[quoteID] = rec
	return nil
}
