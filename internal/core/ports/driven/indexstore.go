package driven

import (
	"context"
	"time"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// IndexMeta records build provenance, written to meta.json beside the
// index. Recorded for audit; never used to silently drop an index.
type IndexMeta struct {
	Model         string         `json:"model"`
	Dimensions    int            `json:"dimensions"`
	Species       domain.Species `json:"species"`
	BuiltAt       time.Time      `json:"built_at"`
	FileCount     int            `json:"file_count"`
	ChunkCount    int            `json:"chunk_count"`
	DroppedChunks int            `json:"dropped_chunks"`

	// FileErrors maps source paths to the error that kept them out of
	// the index. Per-file failures never abort a build.
	FileErrors map[string]string `json:"file_errors,omitempty"`

	// PDFHealth summarizes the optional health scan, keyed by path.
	PDFHealth map[string]string `json:"pdf_health,omitempty"`
}

// LoadedIndex pairs a vector index with its ordered document store.
type LoadedIndex struct {
	Vectors   VectorIndex
	Documents DocumentStore
	Meta      IndexMeta
}

// IndexStore loads persisted indexes keyed by species.
// Implementations cache loaded indexes for the life of the process and
// invalidate a species when its directory is atomically replaced.
type IndexStore interface {
	// Load returns the index for the species.
	// Returns domain.ErrIndexUnavailable when no usable index exists.
	Load(ctx context.Context, species domain.Species) (*LoadedIndex, error)

	// Invalidate drops the cached index for the species, forcing a
	// reload on next access.
	Invalidate(species domain.Species)

	// Close releases resources, including any directory watcher.
	Close() error
}
