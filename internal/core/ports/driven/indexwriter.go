package driven

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// IndexWriter persists a freshly built index, replacing any previous
// index for the species atomically at the filesystem level.
type IndexWriter interface {
	// Write stores the chunk list, its vectors and the build meta.
	// vectors[i] embeds chunks[i]; the lengths must match.
	Write(ctx context.Context, species domain.Species, chunks []domain.Chunk, vectors [][]float32, meta IndexMeta) error
}
