package mcp

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits []domain.SearchHit
	err  error

	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchHit, error) {
	m.lastOpts = opts
	return m.hits, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result domain.AnswerResult

	lastQuestion string
	lastContext  domain.AnswerContext
}

func (m *mockAnswerService) Answer(
	_ context.Context,
	question string,
	qctx domain.AnswerContext,
) domain.AnswerResult {
	m.lastQuestion = question
	m.lastContext = qctx
	return m.result
}

// mockPerformanceService is a mock implementation of driving.PerformanceService.
type mockPerformanceService struct {
	exact   *domain.PerformanceRecord
	nearest *domain.PerformanceRecord
	err     error

	lastSex  domain.Sex
	lastUnit domain.Unit
}

func (m *mockPerformanceService) Get(
	_ context.Context,
	_ string,
	sex domain.Sex,
	unit domain.Unit,
	_ int,
) (*domain.PerformanceRecord, error) {
	m.lastSex = sex
	m.lastUnit = unit
	return m.exact, m.err
}

func (m *mockPerformanceService) Nearest(
	_ context.Context,
	_ string,
	_ domain.Sex,
	_ domain.Unit,
	_ int,
) (*domain.PerformanceRecord, error) {
	return m.nearest, m.err
}

// mockIndexStore is a mock implementation of driven.IndexStore.
type mockIndexStore struct {
	indexes map[domain.Species]*driven.LoadedIndex
}

func (m *mockIndexStore) Load(_ context.Context, sp domain.Species) (*driven.LoadedIndex, error) {
	li, ok := m.indexes[sp]
	if !ok {
		return nil, domain.ErrIndexUnavailable
	}
	return li, nil
}

func (m *mockIndexStore) Invalidate(_ domain.Species) {}
func (m *mockIndexStore) Close() error                { return nil }
