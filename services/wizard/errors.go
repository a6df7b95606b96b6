package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrStepLocked is returned when jumping to a step the user has not reached.
	ErrStepLocked       = errors.New("step is not reachable yet")
	ErrNotOnFinalStep   = errors.New("quotes can only be submitted from the final step")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
)

// SubmissionError wraps a failed call to the submission backend. The draft
// and its price are left as they were, so the user can retry.
type SubmissionError struct {
	QuoteID string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission of quote %s failed: %v", e.QuoteID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
