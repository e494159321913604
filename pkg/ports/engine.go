package ports

import (
	"context"

	"github.com/aretw0/fieldline/pkg/domain"
)

// TraceService defines the request-level interface used by adapters (e.g., HTTP, MCP).
// Requests are self-describing: models are referenced by name and the calibration
// context is built per request.
type TraceService interface {
	// Run traces the request, or returns the stored record for an identical request.
	Run(ctx context.Context, req domain.TraceRequest) (*domain.TraceRecord, error)

	// Lookup returns a stored record by ID.
	Lookup(ctx context.Context, id string) (*domain.TraceRecord, error)

	// List returns the IDs of all stored records, sorted.
	List(ctx context.Context) ([]string, error)

	// Models returns the registered field model names.
	Models() []string
}
