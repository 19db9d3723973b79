package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/index/flat"
	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/storage/memory"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/species"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// It returns the same vector for every input and counts calls.
type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vec, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for range texts {
		v, err := m.Embed(ctx, "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.vec) }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndexStore implements driven.IndexStore over an in-memory map
// and records the species it was asked to load, in order.
type mockIndexStore struct {
	indexes     map[domain.Species]*driven.LoadedIndex
	loads       []domain.Species
	invalidated []domain.Species
}

func (m *mockIndexStore) Load(_ context.Context, sp domain.Species) (*driven.LoadedIndex, error) {
	m.loads = append(m.loads, sp)
	li, ok := m.indexes[sp]
	if !ok {
		return nil, domain.ErrIndexUnavailable
	}
	return li, nil
}

func (m *mockIndexStore) Invalidate(sp domain.Species) {
	m.invalidated = append(m.invalidated, sp)
}

func (m *mockIndexStore) Close() error { return nil }

// indexEntry pairs a stored vector with its chunk for test fixtures.
type indexEntry struct {
	vec   []float32
	chunk domain.Chunk
}

// loadedIndex builds a real flat index and in-memory document store
// from the entries, in order.
func loadedIndex(t *testing.T, dims int, entries ...indexEntry) *driven.LoadedIndex {
	t.Helper()

	idx, err := flat.New(dims)
	require.NoError(t, err)

	docs := memory.NewDocStore()
	for _, e := range entries {
		require.NoError(t, idx.Add([][]float32{e.vec}))
		require.NoError(t, docs.Append(context.Background(), []domain.Chunk{e.chunk}))
	}

	return &driven.LoadedIndex{
		Vectors:   idx,
		Documents: docs,
		Meta:      driven.IndexMeta{Dimensions: dims},
	}
}

func textChunk(text string) domain.Chunk {
	return domain.Chunk{
		Text: text,
		Metadata: domain.ChunkMetadata{
			Source:    "guide.pdf",
			ChunkType: domain.ChunkTypeText,
		},
	}
}

func speciesChunk(text string, sp domain.Species) domain.Chunk {
	c := textChunk(text)
	c.Metadata.Species = sp
	return c
}

func newTestSearch(t *testing.T, store *mockIndexStore, embedder *mockEmbedder) *SearchService {
	t.Helper()
	svc, err := NewSearchService(store, embedder, species.New(), DefaultSearchConfig())
	require.NoError(t, err)
	return svc
}

// --- Tests ---

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{}}
	embedder := &mockEmbedder{vec: []float32{1, 0, 0}}
	svc := newTestSearch(t, store, embedder)

	hits, err := svc.Search(context.Background(), "   ", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Zero(t, embedder.calls)
}

func TestSearchRanksByDescendingScore(t *testing.T) {
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{0, 1, 0}, chunk: textChunk("only loosely related")},
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("closest match")},
		indexEntry{vec: []float32{0.6, 0.8, 0}, chunk: textChunk("partial match")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "densite batiment", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "closest match", hits[0].Text)
	assert.Equal(t, "partial match", hits[1].Text)
	assert.Equal(t, "only loosely related", hits[2].Text)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Greater(t, hits[1].Score, hits[2].Score)
}

func TestSearchLexicalBoostBreaksDistanceTies(t *testing.T) {
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{0.6, 0.8, 0}, chunk: textChunk("humidity management notes")},
		indexEntry{vec: []float32{0.6, 0.8, 0}, chunk: textChunk("ventilation tunnel settings")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "ventilation tunnel", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ventilation tunnel settings", hits[0].Text)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	// Same stored vector, so the raw distances are equal.
	assert.InDelta(t, hits[0].Distance, hits[1].Distance, 1e-6)
}

func TestSearchAcceptAllTierKeepsWeakHits(t *testing.T) {
	// An opposite vector scores far below every selective tier; the
	// final accept-all tier must still surface it.
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{-1, 0, 0}, chunk: textChunk("barely related")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "densite batiment", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Less(t, hits[0].Score, 0.10)
}

func TestSearchFiltersMismatchedSpecies(t *testing.T) {
	broiler := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: speciesChunk("growth targets", domain.SpeciesBroiler)},
		indexEntry{vec: []float32{1, 0, 0}, chunk: speciesChunk("lay rate targets", domain.SpeciesLayer)},
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("general husbandry")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesBroiler: broiler,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	// "ross 308" routes to the broiler index with high confidence.
	hits, err := svc.Search(context.Background(), "poids ross 308", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.NotEqual(t, domain.SpeciesLayer, h.Metadata.Species)
		assert.Equal(t, domain.SpeciesBroiler, h.SpeciesDetected)
		assert.Greater(t, h.SpeciesConfidence, 0.3)
	}
}

func TestSearchUntaggedChunksPassSpeciesFilter(t *testing.T) {
	broiler := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("untagged guidance")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesBroiler: broiler,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "poids ross 308", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "untagged guidance", hits[0].Text)
}

func TestSearchExplicitSpeciesWinsOverInference(t *testing.T) {
	layer := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: speciesChunk("peak lay feed", domain.SpeciesLayer)},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesLayer: layer,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	// The query text carries no layer evidence; the explicit option
	// must route anyway.
	hits, err := svc.Search(context.Background(), "densite batiment", domain.SearchOptions{
		Species: domain.SpeciesLayer,
	})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.SpeciesLayer, store.loads[0])
	assert.Equal(t, domain.SpeciesLayer, hits[0].SpeciesDetected)
	assert.InDelta(t, 1.0, hits[0].SpeciesConfidence, 1e-9)
}

func TestSearchMissingSpeciesIndexFallsBackToGlobal(t *testing.T) {
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("shared corpus hit")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "poids ross 308", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Len(t, store.loads, 2)
	assert.Equal(t, domain.SpeciesBroiler, store.loads[0])
	assert.Equal(t, domain.SpeciesGlobal, store.loads[1])
}

func TestSearchZeroSpeciesHitsRetryGlobal(t *testing.T) {
	// The broiler index only holds layer-tagged chunks, so the
	// species filter empties it and the global index answers.
	broiler := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: speciesChunk("lay rate targets", domain.SpeciesLayer)},
	)
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("shared corpus hit")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesBroiler: broiler,
		domain.SpeciesGlobal:  global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "poids ross 308", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "shared corpus hit", hits[0].Text)
}

func TestSearchGlobalMixingTopsUpThinResults(t *testing.T) {
	broiler := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: speciesChunk("growth targets", domain.SpeciesBroiler)},
	)
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{0.6, 0.8, 0}, chunk: textChunk("shared guidance a")},
		indexEntry{vec: []float32{0, 1, 0}, chunk: textChunk("shared guidance b")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesBroiler: broiler,
		domain.SpeciesGlobal:  global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "poids ross 308", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "growth targets", hits[0].Text)
}

func TestSearchGlobalMixingDisabled(t *testing.T) {
	broiler := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: speciesChunk("growth targets", domain.SpeciesBroiler)},
	)
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{0.6, 0.8, 0}, chunk: textChunk("shared guidance")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesBroiler: broiler,
		domain.SpeciesGlobal:  global,
	}}

	cfg := DefaultSearchConfig()
	cfg.GlobalMixing = false
	svc, err := NewSearchService(store, &mockEmbedder{vec: []float32{1, 0, 0}}, species.New(), cfg)
	require.NoError(t, err)

	hits, err := svc.Search(context.Background(), "poids ross 308", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, []domain.Species{domain.SpeciesBroiler}, store.loads)
}

func TestSearchRespectsK(t *testing.T) {
	entries := make([]indexEntry, 0, 5)
	for i := 0; i < 5; i++ {
		entries = append(entries, indexEntry{
			vec:   []float32{1, float32(i) * 0.1, 0},
			chunk: textChunk("chunk"),
		})
	}
	global := loadedIndex(t, 3, entries...)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	svc := newTestSearch(t, store, &mockEmbedder{vec: []float32{1, 0, 0}})

	hits, err := svc.Search(context.Background(), "densite batiment", domain.SearchOptions{K: 2})

	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchCachesQueryEmbeddings(t *testing.T) {
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("hit")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	embedder := &mockEmbedder{vec: []float32{1, 0, 0}}
	svc := newTestSearch(t, store, embedder)

	for i := 0; i < 3; i++ {
		_, err := svc.Search(context.Background(), "densite batiment", domain.SearchOptions{})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, embedder.calls)
}

func TestSearchNormalizationUnifiesQueryForms(t *testing.T) {
	global := loadedIndex(t, 3,
		indexEntry{vec: []float32{1, 0, 0}, chunk: textChunk("hit")},
	)
	store := &mockIndexStore{indexes: map[domain.Species]*driven.LoadedIndex{
		domain.SpeciesGlobal: global,
	}}
	embedder := &mockEmbedder{vec: []float32{1, 0, 0}}
	svc := newTestSearch(t, store, embedder)

	// Both spellings normalize to "indice de consommation", so the
	// second query is served from the embedding cache.
	_, err := svc.Search(context.Background(), "IC", domain.SearchOptions{})
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "FCR", domain.SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
}
