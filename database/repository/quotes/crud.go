package quotesRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quoteforge/models"
)

func (r *mongoQuoteRepo) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *mongoQuoteRepo) Upsert(ctx context.Context, rec models.QuoteRecord) (bool, error) {
	now := time.Now()
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = now
	}
	update := bson.M{
		"$set": bson.M{
			"draft":          rec.Draft,
			"estimatedPrice": rec.EstimatedPrice,
			"currency":       rec.Currency,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{
			"id":          rec.QuoteID,
			"submittedAt": rec.SubmittedAt,
			"receivedAt":  rec.ReceivedAt,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": rec.QuoteID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert quote %s: %w", rec.QuoteID, err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *mongoQuoteRepo) GetByID(ctx context.Context, quoteID string) (*models.QuoteRecord, error) {
	var rec models.QuoteRecord
	err := r.coll.FindOne(ctx, bson.M{"id": quoteID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoQuoteRepo) List(ctx context.Context, limit int64) ([]models.QuoteRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.QuoteRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *mongoQuoteRepo) MarkFollowedUp(ctx context.Context, quoteID string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": quoteID},
		bson.M{"$set": bson.M{"followedUpAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrQuoteNotFound
	}
	return nil
}
