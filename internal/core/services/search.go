package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
	"github.com/avicola-labs/avisearch-cli/internal/normalize"
	"github.com/avicola-labs/avisearch-cli/internal/species"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultK is the result count when the caller does not set one.
const DefaultK = 6

// defaultThresholdTiers are tried strictest first; the final
// accept-all tier guarantees that a non-empty index always answers.
var defaultThresholdTiers = []float64{0.20, 0.15, 0.10, 0.0}

// similaritySteepness converts index distance to similarity via
// exp(-steepness * distance).
const similaritySteepness = 1.5

// embedCacheSize bounds the query-embedding cache.
const embedCacheSize = 512

// SearchConfig tunes the search engine.
type SearchConfig struct {
	// ThresholdTiers override defaultThresholdTiers when non-empty.
	ThresholdTiers []float64

	// SpeciesConfidenceCutoff gates metadata species filtering.
	SpeciesConfidenceCutoff float64

	// LexicalBoost scales the lexical-overlap bonus.
	LexicalBoost float64

	// GlobalMixing tops up thin species results from the global index.
	GlobalMixing bool
}

// DefaultSearchConfig returns the standard tuning.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		ThresholdTiers:          defaultThresholdTiers,
		SpeciesConfidenceCutoff: 0.3,
		LexicalBoost:            0.3,
		GlobalMixing:            true,
	}
}

// SearchService embeds a normalized query and retrieves scored chunks
// with adaptive thresholding and species routing.
type SearchService struct {
	indexes    driven.IndexStore
	embedder   driven.EmbeddingService
	classifier *species.Classifier
	cfg        SearchConfig

	// embedCache is shared across concurrent queries; re-embedding on
	// a lost update is only a cost, never a correctness issue.
	embedCache *lru.Cache[string, []float32]
}

// NewSearchService creates a new search service.
func NewSearchService(
	indexes driven.IndexStore,
	embedder driven.EmbeddingService,
	classifier *species.Classifier,
	cfg SearchConfig,
) (*SearchService, error) {
	if len(cfg.ThresholdTiers) == 0 {
		cfg.ThresholdTiers = defaultThresholdTiers
	}

	cache, err := lru.New[string, []float32](embedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &SearchService{
		indexes:    indexes,
		embedder:   embedder,
		classifier: classifier,
		cfg:        cfg,
		embedCache: cache,
	}, nil
}

// Search retrieves up to opts.K hits for the query.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	k := opts.K
	if k <= 0 {
		k = DefaultK
	}

	normalized := normalize.Normalize(query)
	logger.Debug("Query normalized: %q -> %q", query, normalized)

	detected, confidence := s.route(normalized, opts.Species)
	primary := primaryIndex(detected)
	logger.Debug("Species %q (confidence %.2f), primary index %s", detected, confidence, primary)

	embedding, err := s.embedQuery(ctx, normalized, detected)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.searchIndex(ctx, primary, normalized, embedding, detected, confidence, k)
	if err != nil {
		// A species without a built index falls back to global rather
		// than failing the query.
		if errors.Is(err, domain.ErrIndexUnavailable) && primary != domain.SpeciesGlobal {
			logger.Debug("Index %s unavailable, using global", primary)
			primary = domain.SpeciesGlobal
			hits, err = s.searchIndex(ctx, primary, normalized, embedding, detected, confidence, k)
		}
		if err != nil {
			return nil, err
		}
	}

	// Thin species results are topped up from the global index; zero
	// results retry there outright.
	if primary != domain.SpeciesGlobal {
		switch {
		case len(hits) == 0:
			logger.Debug("No hits in %s, retrying global index", primary)
			hits, err = s.searchIndex(ctx, domain.SpeciesGlobal, normalized, embedding, detected, confidence, k)
			if err != nil {
				return nil, err
			}
		case s.cfg.GlobalMixing && len(hits) < minBeforeMixing(k):
			global, err := s.searchIndex(ctx, domain.SpeciesGlobal, normalized, embedding, detected, confidence, k-len(hits))
			if err == nil {
				hits = append(hits, global...)
			} else {
				logger.Debug("Global mixing unavailable: %v", err)
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// route resolves the species for this query. An explicit species from
// the caller always wins over inference.
func (s *SearchService) route(normalized string, explicit domain.Species) (domain.Species, float64) {
	if explicit != "" {
		return explicit, 1.0
	}
	return s.classifier.Infer(normalized)
}

// primaryIndex maps a species to the index serving it. Only broiler
// and layer corpora are large enough to carry dedicated indexes.
func primaryIndex(sp domain.Species) domain.Species {
	switch sp {
	case domain.SpeciesBroiler, domain.SpeciesLayer:
		return sp
	default:
		return domain.SpeciesGlobal
	}
}

// minBeforeMixing is the hit count under which species results are
// considered thin.
func minBeforeMixing(k int) int {
	min := k / 3
	if min < 2 {
		min = 2
	}
	return min
}

// embedQuery returns the cached embedding for (query, species) or
// computes and caches it.
func (s *SearchService) embedQuery(ctx context.Context, normalized string, sp domain.Species) ([]float32, error) {
	key := normalized + "|" + string(sp)
	if embedding, ok := s.embedCache.Get(key); ok {
		return embedding, nil
	}

	embedding, err := s.embedder.Embed(ctx, normalized)
	if err != nil {
		return nil, err
	}
	s.embedCache.Add(key, embedding)
	return embedding, nil
}

// searchIndex runs the adaptive-threshold search against one index.
func (s *SearchService) searchIndex(
	ctx context.Context,
	index domain.Species,
	normalized string,
	embedding []float32,
	detected domain.Species,
	confidence float64,
	k int,
) ([]domain.SearchHit, error) {
	loaded, err := s.indexes.Load(ctx, index)
	if err != nil {
		return nil, err
	}
	if loaded.Vectors.Len() == 0 {
		return nil, nil
	}

	// Over-fetch so threshold and species filtering still leave k.
	candidates := k * 3
	if candidates > loaded.Vectors.Len() {
		candidates = loaded.Vectors.Len()
	}

	raw, err := loaded.Vectors.Search(ctx, embedding, candidates)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(raw))
	for _, vh := range raw {
		chunk, err := loaded.Documents.Get(ctx, vh.Position)
		if err != nil {
			logger.Warn("Index %s: no document at position %d", index, vh.Position)
			continue
		}

		// Metadata filter only when inference is trustworthy; chunks
		// without a species tag always pass.
		if confidence > s.cfg.SpeciesConfidenceCutoff && detected != "" &&
			chunk.Metadata.Species != "" && chunk.Metadata.Species != detected {
			continue
		}

		score := similarity(vh.Distance)
		score = s.lexicalBoost(score, normalized, chunk.Text)

		hits = append(hits, domain.SearchHit{
			Text:              chunk.Text,
			Score:             score,
			Metadata:          chunk.Metadata,
			Distance:          vh.Distance,
			SpeciesDetected:   detected,
			SpeciesConfidence: confidence,
		})
	}

	return applyTiers(hits, s.cfg.ThresholdTiers, k), nil
}

// applyTiers keeps the hits passing the strictest tier that yields at
// least one, up to k.
func applyTiers(hits []domain.SearchHit, tiers []float64, k int) []domain.SearchHit {
	for _, tier := range tiers {
		var kept []domain.SearchHit
		for _, h := range hits {
			if h.Score >= tier {
				kept = append(kept, h)
			}
		}
		if len(kept) > 0 {
			if len(kept) > k {
				kept = kept[:k]
			}
			return kept
		}
	}
	return nil
}

// similarity converts an index distance to a score in [0, 1].
func similarity(distance float64) float64 {
	score := math.Exp(-similaritySteepness * distance)
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// lexicalBoost rewards chunks sharing literal query terms, capping
// the boosted score at 1.
func (s *SearchService) lexicalBoost(score float64, normalized, text string) float64 {
	if s.cfg.LexicalBoost <= 0 {
		return score
	}

	queryWords := strings.Fields(normalized)
	if len(queryWords) == 0 {
		return score
	}

	chunkWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		chunkWords[w] = struct{}{}
	}

	var overlap int
	for _, w := range queryWords {
		if _, ok := chunkWords[w]; ok {
			overlap++
		}
	}

	ratio := float64(overlap) / float64(len(queryWords))
	boosted := score * (1 + s.cfg.LexicalBoost*ratio)
	if boosted > 1 {
		return 1
	}
	return boosted
}
