package models

import "time"

// QuoteSubmission is the payload sent to the submission endpoint.
type QuoteSubmission struct {
	QuoteID        string     `json:"quoteId" binding:"required"`
	Draft          QuoteDraft `json:"draft"`
	EstimatedPrice float64    `json:"estimatedPrice"`
	Currency       string     `json:"currency"`
	SubmittedAt    time.Time  `json:"submittedAt"`
}

// QuoteRecord is a submission as stored by the intake backend.
type QuoteRecord struct {
	QuoteID        string     `json:"quoteId" bson:"id"`
	Draft          QuoteDraft `json:"draft" bson:"draft"`
	EstimatedPrice float64    `json:"estimatedPrice" bson:"estimatedPrice"`
	Currency       string     `json:"currency" bson:"currency"`
	SubmittedAt    time.Time  `json:"submittedAt" bson:"submittedAt"`
	ReceivedAt     time.Time  `json:"receivedAt" bson:"receivedAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
	FollowedUpAt   *time.Time `json:"followedUpAt,omitempty" bson:"followedUpAt,omitempty"`
}

// FollowUpPayload is the asynq payload for a delayed follow-up on a submitted quote.
type FollowUpPayload struct {
	QuoteID string `json:"quoteId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}
