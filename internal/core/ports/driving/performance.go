package driving

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// PerformanceService looks up tabular performance targets.
// A miss is an expected, frequent outcome, not an error: the caller
// decides whether to fall back to retrieval.
type PerformanceService interface {
	// Get performs an exact (line, sex, unit, age) lookup. Male/female
	// misses retry as-hatched; unit and line are never relaxed.
	// Returns (nil, nil) on a miss.
	Get(ctx context.Context, line string, sex domain.Sex, unit domain.Unit, ageDays int) (*domain.PerformanceRecord, error)

	// Nearest returns the row for (line, sex, unit) minimizing
	// abs(ageDays - target), ties broken by the smaller age.
	// Returns (nil, nil) when no row matches at all.
	Nearest(ctx context.Context, line string, sex domain.Sex, unit domain.Unit, ageDays int) (*domain.PerformanceRecord, error)
}
