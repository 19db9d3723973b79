// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and for indexes built but not yet
// persisted.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.DocumentStore = (*DocStore)(nil)

// DocStore is an in-memory ordered chunk list.
type DocStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewDocStore creates a new in-memory document store.
func NewDocStore() *DocStore {
	return &DocStore{}
}

// Append adds chunks at the end of the store, preserving order.
func (s *DocStore) Append(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// Get returns the chunk at the given position.
func (s *DocStore) Get(_ context.Context, position int) (domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position < 0 || position >= len(s.chunks) {
		return domain.Chunk{}, fmt.Errorf("%w: position %d", domain.ErrNotFound, position)
	}
	return s.chunks[position], nil
}

// Count returns the number of stored chunks.
func (s *DocStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close releases nothing; it exists to satisfy the interface.
func (s *DocStore) Close() error {
	return nil
}
