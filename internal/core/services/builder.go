package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avicola-labs/avisearch-cli/internal/chunker"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
	"github.com/avicola-labs/avisearch-cli/internal/enrich"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
	"github.com/avicola-labs/avisearch-cli/internal/parsers/pdfhealth"
)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexService = (*IndexBuilder)(nil)

// embedBatchSize bounds one embedding request during builds.
const embedBatchSize = 32

// IndexBuilder ingests a source directory into a per-species index.
type IndexBuilder struct {
	registry driven.ParserRegistry
	embedder driven.EmbeddingService
	writer   driven.IndexWriter
	enricher *enrich.Enricher
	chunker  *chunker.Chunker

	// indexes, when set, has its cache invalidated after a swap.
	indexes driven.IndexStore
}

// NewIndexBuilder creates a builder.
func NewIndexBuilder(
	registry driven.ParserRegistry,
	embedder driven.EmbeddingService,
	writer driven.IndexWriter,
	chk *chunker.Chunker,
) *IndexBuilder {
	return &IndexBuilder{
		registry: registry,
		embedder: embedder,
		writer:   writer,
		enricher: enrich.New(),
		chunker:  chk,
	}
}

// SetIndexStore wires the serving-side cache for post-build invalidation.
func (b *IndexBuilder) SetIndexStore(store driven.IndexStore) {
	b.indexes = store
}

// Build ingests opts.SourceDir and atomically replaces the species
// index. Per-file failures are recorded, never fatal.
func (b *IndexBuilder) Build(ctx context.Context, opts driving.BuildOptions) (*driving.BuildReport, error) {
	species := opts.Species
	if species == "" {
		species = domain.SpeciesGlobal
	}
	if !species.Valid() {
		return nil, fmt.Errorf("%w: unknown species %q", domain.ErrInvalidInput, opts.Species)
	}

	info, err := os.Stat(opts.SourceDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: source directory %s", domain.ErrInvalidInput, opts.SourceDir)
	}

	logger.Section("Index Build")
	logger.Info("Building %s index from %s", species, opts.SourceDir)

	report := &driving.BuildReport{Errors: make(map[string]string)}
	meta := driven.IndexMeta{
		Model:      b.embedder.ModelName(),
		Dimensions: b.embedder.Dimensions(),
		Species:    species,
		BuiltAt:    time.Now().UTC(),
		FileErrors: report.Errors,
		PDFHealth:  make(map[string]string),
	}

	chunks, err := b.ingest(ctx, opts, species, report, &meta)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		logger.Warn("Build produced zero chunks; writing an empty %s index", species)
	}

	vectors, err := b.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	meta.FileCount = report.FilesSeen
	meta.ChunkCount = len(chunks)
	meta.DroppedChunks = report.ChunksDropped
	report.ChunksKept = len(chunks)

	if err := b.writer.Write(ctx, species, chunks, vectors, meta); err != nil {
		return nil, err
	}

	if b.indexes != nil {
		b.indexes.Invalidate(species)
	}

	logger.Info("Index %s built: %d chunks from %d files (%d failed)",
		species, report.ChunksKept, report.FilesSeen, report.FilesFailed)
	return report, nil
}

// ingest walks the source tree and returns the enriched chunk list.
func (b *IndexBuilder) ingest(
	ctx context.Context,
	opts driving.BuildOptions,
	species domain.Species,
	report *driving.BuildReport,
	meta *driven.IndexMeta,
) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	err := filepath.WalkDir(opts.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != opts.SourceDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if opts.HealthScan && strings.EqualFold(filepath.Ext(path), ".pdf") {
			scan := pdfhealth.Scan(path)
			meta.PDFHealth[path] = fmt.Sprintf("%s (%.2f)", scan.Status, scan.Score)
			if scan.Status != pdfhealth.StatusHighQuality && scan.Status != pdfhealth.StatusOK {
				logger.Warn("PDF %s flagged %s (score %.2f)", path, scan.Status, scan.Score)
			}
		}

		segments, err := b.registry.Parse(ctx, path)
		if errors.Is(err, domain.ErrUnsupportedType) {
			// No parser claims this file type.
			return nil
		}

		report.FilesSeen++
		if err != nil {
			report.FilesFailed++
			report.Errors[path] = err.Error()
			return nil
		}
		if len(segments) == 0 {
			report.FilesFailed++
			report.Errors[path] = "no content extracted"
			return nil
		}

		for _, segment := range segments {
			base := b.enricher.Enrich(path, segment.Text, segment.ChunkType, "")
			if species != domain.SpeciesGlobal {
				// The build directory labels its corpus; that label
				// outranks per-chunk inference.
				base.Species = species
			}
			base.Page = segment.Page

			pieces, dropped := b.chunker.Chunk(segment.Text, base)
			report.ChunksDropped += dropped
			chunks = append(chunks, pieces...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk source directory: %w", err)
	}

	// Re-number across the whole build so positions match vectors.
	for i := range chunks {
		chunks[i].Metadata.ChunkIndex = i
	}
	return chunks, nil
}

// embedAll embeds chunk texts in batches.
func (b *IndexBuilder) embedAll(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
