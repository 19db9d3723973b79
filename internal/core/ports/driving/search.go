package driving

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// SearchService retrieves scored chunks for a query.
type SearchService interface {
	// Search returns between 0 and opts.K hits ordered by descending
	// score. The query is normalized and, when opts.Species is empty,
	// routed by inferred species.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error)
}
