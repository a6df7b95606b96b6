package quotesRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"quoteforge/models"
)

var ErrQuoteNotFound = errors.New("quote record not found")

// QuoteRepository stores quotes received by the intake endpoint.
type QuoteRepository interface {
	// Upsert stores rec keyed by QuoteID. Receiving the same quote again
	// refreshes its contents but keeps the first receipt and submission
	// times; created reports whether the record is new.
	Upsert(ctx context.Context, rec models.QuoteRecord) (created bool, err error)
	GetByID(ctx context.Context, quoteID string) (*models.QuoteRecord, error)
	// List returns records newest first.
	List(ctx context.Context, limit int64) ([]models.QuoteRecord, error)
	MarkFollowedUp(ctx context.Context, quoteID string, at time.Time) error
}

type mongoQuoteRepo struct {
	coll *mongo.Collection
}

// NewMongoQuoteRepo returns a QuoteRepository backed by the "quotes"
// collection, creating its indexes first.
func NewMongoQuoteRepo(ctx context.Context, db *mongo.Database) (QuoteRepository, error) {
	repo := &mongoQuoteRepo{
		coll: db.Collection("quotes"),
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create quote indexes: %w", err)
	}
	return repo, nil
}
