package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// answerK is the retrieval depth for answer grounding.
const answerK = 6

// GenerationOptions tunes the answer generation call.
type GenerationOptions struct {
	MaxTokens   int
	Temperature float64
}

// AnswerService routes questions through the table store, retrieval
// and generation, degrading gracefully at every step.
type AnswerService struct {
	search  driving.SearchService
	perf    driving.PerformanceService
	gen     driven.Generator // optional, nil degrades to snippets
	prompts driven.PromptStore
	genOpts GenerationOptions
}

// NewAnswerService creates an answer service. gen may be nil.
func NewAnswerService(
	search driving.SearchService,
	perf driving.PerformanceService,
	gen driven.Generator,
	prompts driven.PromptStore,
	genOpts GenerationOptions,
) *AnswerService {
	if genOpts.MaxTokens <= 0 {
		genOpts.MaxTokens = 700
	}
	return &AnswerService{
		search:  search,
		perf:    perf,
		gen:     gen,
		prompts: prompts,
		genOpts: genOpts,
	}
}

// Answer produces a grounded answer. It never returns an error:
// every failure mode maps to a readable Source/Warning pair.
func (s *AnswerService) Answer(ctx context.Context, question string, qctx domain.AnswerContext) domain.AnswerResult {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AnswerResult{
			Response: "Please ask a question.",
			Source:   domain.AnswerSourceRAGError,
			Warning:  "empty question",
		}
	}

	// Structured performance questions are answered deterministically
	// from the tables, without retrieval or generation.
	if result, ok := s.answerFromTables(ctx, qctx); ok {
		return result
	}

	hits, err := s.search.Search(ctx, question, domain.SearchOptions{
		K:       answerK,
		Species: qctx.Species,
	})
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return s.fallback(ctx, question, fmt.Sprintf("retrieval unavailable: %v", err))
	}
	if len(hits) == 0 {
		return s.fallback(ctx, question, "no matching documents")
	}

	// Structured numeric answers usually live in tables; feed those
	// to the generator first.
	sort.SliceStable(hits, func(i, j int) bool {
		ti := hits[i].Metadata.ChunkType == domain.ChunkTypeTable
		tj := hits[j].Metadata.ChunkType == domain.ChunkTypeTable
		return ti && !tj
	})

	citations := citationsFrom(hits)

	if s.gen == nil {
		return domain.AnswerResult{
			Response:      snippetListing(hits),
			Source:        domain.AnswerSourceDocuments,
			DocumentsUsed: len(hits),
			Warning:       "no generator configured, showing matching excerpts",
			Citations:     citations,
		}
	}

	prompt, err := s.loadPrompt(driven.PromptAnswer)
	if err != nil {
		logger.Warn("Answer prompt unavailable: %v", err)
		return domain.AnswerResult{
			Response:      snippetListing(hits),
			Source:        domain.AnswerSourceRAGError,
			DocumentsUsed: len(hits),
			Warning:       "prompt unavailable, showing matching excerpts",
			Citations:     citations,
		}
	}

	response, err := s.gen.Complete(ctx, fmt.Sprintf(prompt, documentsBlock(hits), question), driven.GenerateOptions{
		MaxTokens:   s.genOpts.MaxTokens,
		Temperature: s.genOpts.Temperature,
	})
	if err != nil || strings.TrimSpace(response) == "" {
		logger.Warn("Generation failed: %v", err)
		return domain.AnswerResult{
			Response:      snippetListing(hits),
			Source:        domain.AnswerSourceRAGError,
			DocumentsUsed: len(hits),
			Warning:       "generation failed, showing matching excerpts",
			Citations:     citations,
		}
	}

	return domain.AnswerResult{
		Response:      strings.TrimSpace(response),
		Source:        domain.AnswerSourceDocuments,
		DocumentsUsed: len(hits),
		Citations:     citations,
	}
}

// answerFromTables tries the deterministic short-circuit. The second
// return is false when the question is not a table lookup or no row
// matched, sending the caller down the retrieval path.
func (s *AnswerService) answerFromTables(ctx context.Context, qctx domain.AnswerContext) (domain.AnswerResult, bool) {
	if s.perf == nil || qctx.Breed == "" || qctx.AgeDays < 0 {
		return domain.AnswerResult{}, false
	}

	sex := qctx.Sex
	if sex == "" {
		sex = domain.SexAsHatched
	}
	unit := qctx.Unit
	if unit == "" {
		unit = domain.UnitMetric
	}

	rec, err := s.perf.Get(ctx, qctx.Breed, sex, unit, qctx.AgeDays)
	if err != nil {
		logger.Warn("Performance lookup failed: %v", err)
		return domain.AnswerResult{}, false
	}

	var warning string
	if rec == nil {
		rec, err = s.perf.Nearest(ctx, qctx.Breed, sex, unit, qctx.AgeDays)
		if err != nil || rec == nil {
			return domain.AnswerResult{}, false
		}
		warning = fmt.Sprintf("no target published at %d days, using nearest age %d days",
			qctx.AgeDays, rec.AgeDays)
	}

	result := domain.AnswerResult{
		Response: formatRecord(rec),
		Source:   domain.AnswerSourceTable,
		Warning:  warning,
	}
	if rec.SourceDoc != "" {
		result.Citations = []domain.Citation{{
			Source:    rec.SourceDoc,
			Page:      rec.Page,
			ChunkType: domain.ChunkTypeTable,
		}}
	}
	return result, true
}

// fallback answers from general knowledge when retrieval yields
// nothing usable.
func (s *AnswerService) fallback(ctx context.Context, question, reason string) domain.AnswerResult {
	if s.gen == nil {
		return domain.AnswerResult{
			Response: "No reference document matches this question and no generator is configured.",
			Source:   domain.AnswerSourceRAGError,
			Warning:  reason,
		}
	}

	prompt, err := s.loadPrompt(driven.PromptFallback)
	if err != nil {
		logger.Warn("Fallback prompt unavailable: %v", err)
		return domain.AnswerResult{
			Response: "No reference document matches this question.",
			Source:   domain.AnswerSourceRAGError,
			Warning:  reason,
		}
	}

	response, err := s.gen.Complete(ctx, fmt.Sprintf(prompt, question), driven.GenerateOptions{
		MaxTokens:   s.genOpts.MaxTokens,
		Temperature: s.genOpts.Temperature,
	})
	if err != nil || strings.TrimSpace(response) == "" {
		logger.Warn("Fallback generation failed: %v", err)
		return domain.AnswerResult{
			Response: "No reference document matches this question and generation is unavailable.",
			Source:   domain.AnswerSourceRAGError,
			Warning:  reason,
		}
	}

	return domain.AnswerResult{
		Response: strings.TrimSpace(response),
		Source:   domain.AnswerSourceFallback,
		Warning:  reason,
	}
}

func (s *AnswerService) loadPrompt(name string) (string, error) {
	if s.prompts == nil {
		return "", fmt.Errorf("no prompt store configured")
	}
	return s.prompts.Load(name)
}

// promptPreviewChars bounds one document's contribution to the
// grounding prompt. Table chunks may exceed the chunker window and
// would otherwise crowd out the other documents.
const promptPreviewChars = 1200

// documentsBlock renders hits for the grounding prompt, each truncated
// to the preview bound.
func documentsBlock(hits []domain.SearchHit) string {
	var b strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&b, "[%d] %s", i+1, sourceLabel(h.Metadata))
		b.WriteString("\n")
		b.WriteString(preview(h.Text, promptPreviewChars))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// preview truncates text to at most max bytes without splitting a rune.
func preview(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + " [...]"
}

// snippetListing renders hits directly for degraded answers.
func snippetListing(hits []domain.SearchHit) string {
	var b strings.Builder
	b.WriteString("Matching excerpts:\n\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. (%s, score %.2f)\n%s\n\n", i+1, sourceLabel(h.Metadata), h.Score, h.Text)
	}
	return strings.TrimSpace(b.String())
}

func sourceLabel(m domain.ChunkMetadata) string {
	if m.Page > 0 {
		return fmt.Sprintf("%s p.%d", m.Source, m.Page)
	}
	return m.Source
}

func citationsFrom(hits []domain.SearchHit) []domain.Citation {
	seen := make(map[string]struct{}, len(hits))
	citations := make([]domain.Citation, 0, len(hits))
	for _, h := range hits {
		key := fmt.Sprintf("%s|%d", h.Metadata.Source, h.Metadata.Page)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		citations = append(citations, domain.Citation{
			Source:    h.Metadata.Source,
			Page:      h.Metadata.Page,
			ChunkType: h.Metadata.ChunkType,
		})
	}
	return citations
}

// formatRecord renders a performance row as a readable answer.
func formatRecord(rec *domain.PerformanceRecord) string {
	var parts []string
	if rec.WeightG > 0 {
		parts = append(parts, fmt.Sprintf("target weight %.0f g", rec.WeightG))
	}
	if rec.WeightLb > 0 {
		parts = append(parts, fmt.Sprintf("target weight %.2f lb", rec.WeightLb))
	}
	if rec.DailyGainG > 0 {
		parts = append(parts, fmt.Sprintf("daily gain %.1f g", rec.DailyGainG))
	}
	if rec.CumFCR > 0 {
		parts = append(parts, fmt.Sprintf("cumulative FCR %.2f", rec.CumFCR))
	}
	if len(parts) == 0 {
		parts = append(parts, "row present but carries no target values")
	}

	return fmt.Sprintf("%s, %s, %s, %d days: %s.",
		rec.Line, rec.Sex, rec.Unit, rec.AgeDays, strings.Join(parts, ", "))
}
