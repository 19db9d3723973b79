package driving

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// BuildOptions configures an index build.
type BuildOptions struct {
	// SourceDir is the directory to ingest.
	SourceDir string

	// Species labels the output index.
	Species domain.Species

	// MinChunkLength drops chunks shorter than this after extraction.
	MinChunkLength int

	// HealthScan enables the PDF quality pre-scan.
	HealthScan bool
}

// BuildReport summarizes a completed build.
type BuildReport struct {
	FilesSeen     int
	FilesFailed   int
	ChunksKept    int
	ChunksDropped int

	// Errors maps failed paths to their recorded error.
	Errors map[string]string
}

// IndexService builds per-species indexes offline.
type IndexService interface {
	// Build ingests SourceDir and writes a complete index for the
	// species, replacing any previous one atomically. Per-file
	// failures are recorded in the report, never fatal; a zero-chunk
	// build completes successfully with a warning.
	Build(ctx context.Context, opts BuildOptions) (*BuildReport, error)
}
