// Package checkpoint persists batch-run resume state: the index of the
// next unprocessed domain. The value is overwritten after every domain
// and cleared on full completion, so an absent checkpoint always means
// "start from the beginning".
package checkpoint

import "context"

// Store is the durable home of the resume index.
type Store interface {
	// Load returns the resume index. An absent checkpoint loads as 0;
	// a corrupt value also loads as 0 (with a warning), never an error,
	// because a damaged checkpoint must not block a fresh run.
	Load(ctx context.Context) (int, error)
	// Save overwrites the checkpoint with index.
	Save(ctx context.Context, index int) error
	// Clear removes the checkpoint. Clearing an absent checkpoint is
	// not an error.
	Clear(ctx context.Context) error
}
