package driven

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// DocumentStore persists the ordered chunk list of one index.
// Position i holds the chunk embedded as vector i; the pairing is the
// whole contract. A count mismatch against the vector index is a
// load-time warning, not a hard failure - search still works up to
// min(ntotal, count).
type DocumentStore interface {
	// Append adds chunks at the end of the store, preserving order.
	Append(ctx context.Context, chunks []domain.Chunk) error

	// Get returns the chunk at the given position.
	// Returns domain.ErrNotFound when the position is out of range.
	Get(ctx context.Context, position int) (domain.Chunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
