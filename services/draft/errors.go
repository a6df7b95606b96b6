package draft

import "errors"

var (
	// ErrNotHydrated is returned by mutations attempted before durable
	// storage has been read.
	ErrNotHydrated = errors.New("draft store is not hydrated yet")
	// ErrUnknownQuote means a quote id was never issued by this store.
	ErrUnknownQuote = errors.New("unknown quote id")
)

const persistenceWarning = "Your draft could not be saved to storage. Changes are kept for this session only."
