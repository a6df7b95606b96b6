package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"quoteforge/config"
	quotesRepo "quoteforge/database/repository/quotes"
	"quoteforge/models"
	"quoteforge/services/tasks"
)

// RedisOpt is the asynq connection shared by the worker and the enqueuing client.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitFollowUpWorker runs the follow-up worker in background. The returned
// server must be shut down by the caller.
func InitFollowUpWorker(repo quotesRepo.QuoteRepository, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeQuoteFollowUp, HandleFollowUpTask(repo, logger))

	go func() {
		logger.Info("Starting follow-up worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("Follow-up worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("Follow-up worker gave up; submitted quotes will not be followed up")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleFollowUpTask marks the quote as followed up. A payload that cannot be
// decoded or a quote that no longer exists is not retried.
func HandleFollowUpTask(repo quotesRepo.QuoteRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.FollowUpPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid follow-up payload", zap.Error(err))
			return fmt.Errorf("invalid follow-up payload: %v: %w", err, asynq.SkipRetry)
		}

		rec, err := repo.GetByID(ctx, p.QuoteID)
		if errors.Is(err, quotesRepo.ErrQuoteNotFound) {
			logger.Warn("Follow-up for unknown quote", zap.String("quoteID", p.QuoteID))
			return fmt.Errorf("quote %s: %w", p.QuoteID, asynq.SkipRetry)
		}
		if err != nil {
			return err
		}
		if rec.FollowedUpAt != nil {
			return nil
		}

		logger.Info("Follow up on submitted quote",
			zap.String("quoteID", p.QuoteID),
			zap.String("name", p.Name),
			zap.String("email", p.Email),
			zap.Float64("estimatedPrice", rec.EstimatedPrice),
		)
		return repo.MarkFollowedUp(ctx, p.QuoteID, time.Now())
	}
}
