package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	quotesRepo "quoteforge/database/repository/quotes"
	"quoteforge/models"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
	"quoteforge/services/tasks"
	"quoteforge/utils"
)

// IntakeHandler is the reference submission backend: it validates incoming
// quotes, stores them and schedules a follow-up.
type IntakeHandler struct {
	Repo          quotesRepo.QuoteRepository
	Queue         tasks.Enqueuer
	Catalog       *pricing.Catalog
	FollowUpDelay time.Duration

	steps *steps.Registry
}

func NewIntakeHandler(repo quotesRepo.QuoteRepository, queue tasks.Enqueuer, catalog *pricing.Catalog, followUpDelay time.Duration) *IntakeHandler {
	return &IntakeHandler{
		Repo:          repo,
		Queue:         queue,
		Catalog:       catalog,
		FollowUpDelay: followUpDelay,
		steps:         steps.NewRegistry(catalog),
	}
}

// ReceiveQuote stores a submitted quote. Receiving the same quote id twice
// updates the record and does not schedule a second follow-up.
func (h *IntakeHandler) ReceiveQuote(c *gin.Context) {
	logger := getLogger(c)

	var sub models.QuoteSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid submission", err.Error())
		return
	}
	sub.Draft.Normalize()
	if err := h.steps.Gate(models.StepContact, sub.Draft); err != nil {
		respondError(c, err)
		return
	}

	unit := pricing.ParseCurrency(sub.Currency)
	price := pricing.RoundMinor(h.Catalog.ComputePrice(sub.Draft), unit)
	if math.Abs(price-sub.EstimatedPrice) > 0.005 {
		logger.Warn("Submitted price differs from catalog estimate; storing the recomputed price",
			zap.String("quoteID", sub.QuoteID),
			zap.Float64("submitted", sub.EstimatedPrice),
			zap.Float64("recomputed", price),
		)
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	created, err := h.Repo.Upsert(c.Request.Context(), models.QuoteRecord{
		QuoteID:        sub.QuoteID,
		Draft:          sub.Draft,
		EstimatedPrice: price,
		Currency:       unit.String(),
		SubmittedAt:    sub.SubmittedAt,
	})
	if err != nil {
		logger.Error("Failed to store submitted quote", zap.String("quoteID", sub.QuoteID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to store quote", "")
		return
	}

	if created {
		h.scheduleFollowUp(logger, sub)
	}
	logger.Info("Quote received", zap.String("quoteID", sub.QuoteID), zap.Bool("created", created))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"quoteId":        sub.QuoteID,
		"estimatedPrice": price,
		"currency":       unit.String(),
	})
}

func (h *IntakeHandler) scheduleFollowUp(logger *zap.Logger, sub models.QuoteSubmission) {
	if h.Queue == nil {
		return
	}
	contact := sub.Draft.ContactInfo
	task, opts, err := tasks.NewFollowUpTask(models.FollowUpPayload{
		QuoteID: sub.QuoteID,
		Email:   contact.Email,
		Name:    contact.FirstName,
	}, time.Now().Add(h.FollowUpDelay))
	if err != nil {
		logger.Error("Failed to build follow-up task", zap.Error(err))
		return
	}
	if _, err := h.Queue.Enqueue(task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return
		}
		// The quote is stored; a missing reminder is not worth failing the request.
		logger.Warn("Failed to schedule follow-up", zap.String("quoteID", sub.QuoteID), zap.Error(err))
	}
}
