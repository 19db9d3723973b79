package flat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(3)
	require.NoError(t, err)
	require.NoError(t, idx.Add([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
		{0, 0, 5}, // normalized on add
	}))
	return idx
}

func TestNewRejectsBadDimensions(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	assert.ErrorIs(t, idx.Add([][]float32{{1, 0}}), domain.ErrInvalidInput)
}

func TestSearchOrdersByDistance(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].Position)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.Equal(t, 2, hits[1].Position)
	assert.Less(t, hits[1].Distance, hits[2].Distance)
}

func TestSearchNormalizesQuery(t *testing.T) {
	idx := testIndex(t)

	short, err := idx.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	long, err := idx.Search(context.Background(), []float32{100, 0, 0}, 1)
	require.NoError(t, err)

	assert.Equal(t, short[0].Position, long[0].Position)
	assert.InDelta(t, short[0].Distance, long[0].Distance, 1e-6)
}

func TestSearchClampsK(t *testing.T) {
	idx := testIndex(t)

	hits, err := idx.Search(context.Background(), []float32{0, 0, 1}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, idx.Len())
	assert.Equal(t, 3, hits[0].Position)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchValidatesInput(t *testing.T) {
	idx := testIndex(t)

	_, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = idx.Search(context.Background(), []float32{1, 0, 0}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	idx := testIndex(t)
	path := filepath.Join(t.TempDir(), "vectors.bin")
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), loaded.Len())
	assert.Equal(t, idx.Dimensions(), loaded.Dimensions())

	want, err := idx.Search(context.Background(), []float32{0.2, 0.9, 0}, 4)
	require.NoError(t, err)
	got, err := loaded.Search(context.Background(), []float32{0.2, 0.9, 0}, 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an index"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
