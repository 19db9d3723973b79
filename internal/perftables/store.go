// Package perftables serves deterministic performance-target lookups
// from per-line tabular data. It is consulted before vector retrieval:
// a structured (line, sex, unit, age) question that hits a table needs
// no generation at all.
package perftables

import (
	"context"
	"sync"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
)

// Ensure Store implements the interface.
var _ driving.PerformanceService = (*Store)(nil)

// Store caches per-line tables for the process lifetime. Tables are
// immutable after load.
type Store struct {
	dir string

	mu    sync.Mutex
	cache map[string][]domain.PerformanceRecord
}

// NewStore creates a store over the given tables directory.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string][]domain.PerformanceRecord),
	}
}

// Get performs an exact (line, sex, unit, age) lookup. A male or
// female miss retries as-hatched, the only relaxation; unit and line
// are never relaxed. Returns (nil, nil) on a miss.
func (s *Store) Get(ctx context.Context, line string, sex domain.Sex, unit domain.Unit, ageDays int) (*domain.PerformanceRecord, error) {
	rows, err := s.rows(ctx, line)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	if rec := exact(rows, sex, unit, ageDays); rec != nil {
		return rec, nil
	}
	if sex == domain.SexMale || sex == domain.SexFemale {
		return exact(rows, domain.SexAsHatched, unit, ageDays), nil
	}
	return nil, nil
}

// Nearest returns the row for (line, sex, unit) closest in age to
// ageDays, ties broken by the smaller age. Sex relaxes to as-hatched
// the same way Get does. Returns (nil, nil) when nothing matches.
func (s *Store) Nearest(ctx context.Context, line string, sex domain.Sex, unit domain.Unit, ageDays int) (*domain.PerformanceRecord, error) {
	rows, err := s.rows(ctx, line)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	if rec := nearest(rows, sex, unit, ageDays); rec != nil {
		return rec, nil
	}
	if sex == domain.SexMale || sex == domain.SexFemale {
		return nearest(rows, domain.SexAsHatched, unit, ageDays), nil
	}
	return nil, nil
}

// rows returns the cached table for line, loading it on first use.
// Misses are cached too so an absent table is resolved once.
func (s *Store) rows(ctx context.Context, line string) ([]domain.PerformanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug := CanonLine(line)
	if slug == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rows, ok := s.cache[slug]; ok {
		return rows, nil
	}

	rows, err := loadLine(s.dir, slug)
	if err != nil {
		return nil, err
	}
	s.cache[slug] = rows
	return rows, nil
}

func exact(rows []domain.PerformanceRecord, sex domain.Sex, unit domain.Unit, ageDays int) *domain.PerformanceRecord {
	for i := range rows {
		r := &rows[i]
		if r.Sex == sex && r.Unit == unit && r.AgeDays == ageDays {
			return r
		}
	}
	return nil
}

func nearest(rows []domain.PerformanceRecord, sex domain.Sex, unit domain.Unit, ageDays int) *domain.PerformanceRecord {
	var best *domain.PerformanceRecord
	for i := range rows {
		r := &rows[i]
		if r.Sex != sex || r.Unit != unit {
			continue
		}
		if best == nil {
			best = r
			continue
		}
		bd, rd := abs(best.AgeDays-ageDays), abs(r.AgeDays-ageDays)
		if rd < bd || (rd == bd && r.AgeDays < best.AgeDays) {
			best = r
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
