package cli

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

type cliMockSearch struct {
	hits []domain.SearchHit
	err  error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *cliMockSearch) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.hits, m.err
}

type cliMockAnswer struct {
	result domain.AnswerResult

	lastQuestion string
	lastContext  domain.AnswerContext
}

func (m *cliMockAnswer) Answer(_ context.Context, question string, qctx domain.AnswerContext) domain.AnswerResult {
	m.lastQuestion = question
	m.lastContext = qctx
	return m.result
}

type cliMockIndex struct {
	report *driving.BuildReport
	err    error

	lastOpts driving.BuildOptions
}

func (m *cliMockIndex) Build(_ context.Context, opts driving.BuildOptions) (*driving.BuildReport, error) {
	m.lastOpts = opts
	if m.report == nil && m.err == nil {
		return &driving.BuildReport{}, nil
	}
	return m.report, m.err
}

type cliMockPerf struct {
	exact   *domain.PerformanceRecord
	nearest *domain.PerformanceRecord
	err     error
}

func (m *cliMockPerf) Get(_ context.Context, _ string, _ domain.Sex, _ domain.Unit, _ int) (*domain.PerformanceRecord, error) {
	return m.exact, m.err
}

func (m *cliMockPerf) Nearest(_ context.Context, _ string, _ domain.Sex, _ domain.Unit, _ int) (*domain.PerformanceRecord, error) {
	return m.nearest, m.err
}

// setupTestServices swaps the package-level services for mocks and
// returns a cleanup that restores the previous wiring.
func setupTestServices(search driving.SearchService, answer driving.AnswerService, index driving.IndexService, perf driving.PerformanceService) func() {
	prevSearch := searchService
	prevAnswer := answerService
	prevIndex := indexService
	prevPerf := perfService

	searchService = search
	answerService = answer
	indexService = index
	perfService = perf

	return func() {
		searchService = prevSearch
		answerService = prevAnswer
		indexService = prevIndex
		perfService = prevPerf
	}
}
