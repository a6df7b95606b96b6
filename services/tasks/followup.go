package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"quoteforge/models"
)

const TypeQuoteFollowUp = "quote:follow-up"

// Enqueuer is the part of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewFollowUpTask builds the delayed reminder to contact the client about a
// submitted quote. The task id is derived from the quote so a re-submitted
// quote does not schedule a second follow-up.
func NewFollowUpTask(payload models.FollowUpPayload, processAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeQuoteFollowUp, b)
	opts := []asynq.Option{
		asynq.ProcessAt(processAt),
		asynq.TaskID("follow-up:" + payload.QuoteID),
		asynq.MaxRetry(5),
	}

	return task, opts, nil
}
