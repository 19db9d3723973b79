package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/chunker"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
	"github.com/avicola-labs/avisearch-cli/internal/parsers"
)

// --- Mock implementations ---

// mockIndexWriter implements driven.IndexWriter and captures the
// last write.
type mockIndexWriter struct {
	species domain.Species
	chunks  []domain.Chunk
	vectors [][]float32
	meta    driven.IndexMeta
	err     error
	calls   int
}

func (m *mockIndexWriter) Write(_ context.Context, species domain.Species, chunks []domain.Chunk, vectors [][]float32, meta driven.IndexMeta) error {
	m.calls++
	m.species = species
	m.chunks = chunks
	m.vectors = vectors
	m.meta = meta
	return m.err
}

func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestBuilder(writer *mockIndexWriter) (*IndexBuilder, *mockEmbedder) {
	embedder := &mockEmbedder{vec: []float32{1, 0, 0}}
	registry := parsers.NewRegistry(parsers.DefaultCapabilities())
	return NewIndexBuilder(registry, embedder, writer, chunker.New(chunker.WithMinLength(10))), embedder
}

// --- Tests ---

func TestBuildIndexesTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "brooding.txt",
		"Maintain 34C at placement and reduce by half a degree per day until ambient.")
	writeSourceFile(t, dir, "water.txt",
		"Flush water lines weekly and verify nipple flow rates at bird height.")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	report, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesSeen)
	assert.Zero(t, report.FilesFailed)
	assert.Empty(t, report.Errors)
	assert.Equal(t, len(writer.chunks), report.ChunksKept)

	require.Equal(t, 1, writer.calls)
	assert.Equal(t, domain.SpeciesBroiler, writer.species)
	require.NotEmpty(t, writer.chunks)
	require.Len(t, writer.vectors, len(writer.chunks))

	assert.Equal(t, "mock-embedder", writer.meta.Model)
	assert.Equal(t, 3, writer.meta.Dimensions)
	assert.Equal(t, domain.SpeciesBroiler, writer.meta.Species)
	assert.Equal(t, 2, writer.meta.FileCount)
	assert.False(t, writer.meta.BuiltAt.IsZero())

	for i, c := range writer.chunks {
		assert.Equal(t, i, c.Metadata.ChunkIndex)
		assert.Equal(t, domain.SpeciesBroiler, c.Metadata.Species)
		assert.NotEmpty(t, c.Metadata.Source)
	}
}

func TestBuildGlobalKeepsInferredSpecies(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broiler-notes.txt",
		"Le poulet de chair ross 308 atteint son poids cible vers 35 jours d'elevage.")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	_, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SpeciesGlobal, writer.species)
	require.NotEmpty(t, writer.chunks)
	// A global build keeps per-chunk inference instead of stamping
	// the build label over it.
	assert.Equal(t, domain.SpeciesBroiler, writer.chunks[0].Metadata.Species)
}

func TestBuildRecordsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "good.txt",
		"Litter depth of eight centimetres keeps footpad scores in range.")
	bad := writeSourceFile(t, dir, "broken.csv", "age,weight\n\"unclosed,980\n")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	report, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.FilesSeen)
	assert.Equal(t, 1, report.FilesFailed)
	assert.Contains(t, report.Errors, bad)
	require.Equal(t, 1, writer.calls)
	assert.Contains(t, writer.meta.FileErrors, bad)
}

func TestBuildRecordsCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	bad := writeSourceFile(t, dir, "broken.pdf", "not a pdf at all, just bytes")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	report, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesSeen)
	assert.Equal(t, 1, report.FilesFailed)
	assert.Contains(t, report.Errors, bad)
	require.Equal(t, 1, writer.calls)
	assert.Contains(t, writer.meta.FileErrors, bad)
}

func TestBuildRecordsFileWithNoContent(t *testing.T) {
	dir := t.TempDir()
	empty := writeSourceFile(t, dir, "empty.txt", "")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	report, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesSeen)
	assert.Equal(t, 1, report.FilesFailed)
	assert.Equal(t, "no content extracted", report.Errors[empty])
}

func TestBuildSkipsUnclaimedAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "notes.txt",
		"Ventilation minimum rates rise with bird mass and outside humidity.")
	writeSourceFile(t, dir, "firmware.bin", "\x00\x01\x02")
	writeSourceFile(t, dir, ".draft.txt",
		"This hidden draft must never reach the index.")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	writeSourceFile(t, filepath.Join(dir, ".git"), "config.txt", "not a document")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	report, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.FilesSeen)
	for _, c := range writer.chunks {
		assert.NotContains(t, c.Text, "hidden draft")
		assert.False(t, strings.Contains(c.Metadata.Source, ".git"))
	}
}

func TestBuildRejectsUnknownSpecies(t *testing.T) {
	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	_, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: t.TempDir(),
		Species:   domain.Species("goat"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, writer.calls)
}

func TestBuildRejectsMissingSourceDir(t *testing.T) {
	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	_, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: filepath.Join(t.TempDir(), "nope"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildEmptySourceWritesEmptyIndex(t *testing.T) {
	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	report, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: t.TempDir(),
		Species:   domain.SpeciesLayer,
	})

	require.NoError(t, err)
	assert.Zero(t, report.ChunksKept)
	require.Equal(t, 1, writer.calls)
	assert.Empty(t, writer.chunks)
	assert.Empty(t, writer.vectors)
}

func TestBuildInvalidatesServingCache(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "notes.txt",
		"Ventilation minimum rates rise with bird mass and outside humidity.")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{}}
	builder.SetIndexStore(store)

	_, err := builder.Build(context.Background(), driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.Species{domain.SpeciesBroiler}, store.invalidated)
}

func TestBuildCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "notes.txt",
		"Ventilation minimum rates rise with bird mass and outside humidity.")

	writer := &mockIndexWriter{}
	builder, _ := newTestBuilder(writer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder.Build(ctx, driving.BuildOptions{
		SourceDir: dir,
		Species:   domain.SpeciesBroiler,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, writer.calls)
}
