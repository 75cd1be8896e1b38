// Package database mirrors harvest records into relational storage so
// downstream analysis can query the panel without re-parsing the CSV
// dataset.
package database

import (
	"context"

	"github.com/webgov/harvester/internal/harvest"
)

// Provider persists harvest records. The CSV dataset remains the source
// of truth; a provider is a secondary mirror, and the runner treats its
// failures as non-fatal.
type Provider interface {
	SaveRecords(ctx context.Context, records []harvest.Record) error
	Close()
}

// NoOpProvider discards records. It is the default when no database is
// configured.
type NoOpProvider struct{}

// NewNoOpProvider returns a Provider that does nothing.
func NewNoOpProvider() *NoOpProvider {
	return &NoOpProvider{}
}

// SaveRecords discards the records.
func (*NoOpProvider) SaveRecords(context.Context, []harvest.Record) error {
	return nil
}

// Close is a no-op.
func (*NoOpProvider) Close() {}
