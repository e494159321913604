package ports

import (
	"context"

	"github.com/aretw0/fieldline/pkg/domain"
)

// ResultStore persists finished trace records keyed by request ID.
// This lets adapters serve repeated requests without re-tracing.
type ResultStore interface {
	// Save persists the record under record.ID, replacing any previous value.
	Save(ctx context.Context, record *domain.TraceRecord) error

	// Load retrieves a record by ID.
	// Returns domain.ErrTraceNotFound if the record does not exist.
	Load(ctx context.Context, id string) (*domain.TraceRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored records.
	List(ctx context.Context) ([]string, error)
}
