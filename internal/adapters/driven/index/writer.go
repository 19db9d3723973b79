package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/index/flat"
	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
)

// Ensure Writer implements the interface.
var _ driven.IndexWriter = (*Writer)(nil)

// Writer assembles an index in a temp directory under the root and
// swaps it in with renames, so readers only ever see a complete index.
type Writer struct {
	root string
}

// NewWriter creates a writer for the given index root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Write persists the built index for the species.
func (w *Writer) Write(
	ctx context.Context,
	species domain.Species,
	chunks []domain.Chunk,
	vectors [][]float32,
	meta driven.IndexMeta,
) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create index root: %w", err)
	}

	tmpDir, err := os.MkdirTemp(w.root, ".build-"+string(species)+"-*")
	if err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	idx, err := flat.New(meta.Dimensions)
	if err != nil {
		return err
	}
	if err := idx.Add(vectors); err != nil {
		return err
	}
	if err := idx.Save(filepath.Join(tmpDir, VectorsFile)); err != nil {
		return err
	}

	docs, err := sqlite.NewStore(filepath.Join(tmpDir, DocumentsFile))
	if err != nil {
		return err
	}
	if err := docs.Append(ctx, chunks); err != nil {
		docs.Close()
		return err
	}
	if err := docs.Close(); err != nil {
		return fmt.Errorf("close document store: %w", err)
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, MetaFile), metaJSON, 0o644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	return w.swap(tmpDir, filepath.Join(w.root, string(species)))
}

// swap activates the freshly built directory, keeping the previous
// index recoverable until the rename succeeds.
func (w *Writer) swap(tmpDir, target string) error {
	old := target + ".old." + fmt.Sprint(time.Now().UnixNano())

	replaced := false
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, old); err != nil {
			return fmt.Errorf("stash previous index: %w", err)
		}
		replaced = true
	}

	if err := os.Rename(tmpDir, target); err != nil {
		if replaced {
			_ = os.Rename(old, target)
		}
		return fmt.Errorf("activate new index: %w", err)
	}

	if replaced {
		if err := os.RemoveAll(old); err != nil {
			logger.Warn("Could not remove previous index %s: %v", old, err)
		}
	}
	return nil
}
