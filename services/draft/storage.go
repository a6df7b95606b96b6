package draft

import "context"

// Storage is the durable home of one wizard's persisted document.
// Load returns (nil, nil) when nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
