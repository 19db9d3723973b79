package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
	"github.com/avicola-labs/avisearch-cli/internal/parsers/pdftable"
	"github.com/avicola-labs/avisearch-cli/internal/parsers/pdftext"
	"github.com/avicola-labs/avisearch-cli/internal/parsers/plaintext"
	"github.com/avicola-labs/avisearch-cli/internal/parsers/tabular"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// DefaultParseTimeout bounds a single file's extraction.
const DefaultParseTimeout = 2 * time.Minute

// Registry ranks parsers per file and runs the cascade.
type Registry struct {
	parsers []driven.Parser
	timeout time.Duration
}

// Option configures the registry.
type Option func(*Registry)

// WithTimeout sets the per-file parse timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRegistry assembles the registry from the build's capabilities.
func NewRegistry(caps Capabilities, opts ...Option) *Registry {
	r := &Registry{timeout: DefaultParseTimeout}
	for _, opt := range opts {
		opt(r)
	}

	if caps.HasPDF {
		r.Register(pdftext.New())
	}
	if caps.HasPDFTables {
		r.Register(pdftable.New())
	}
	if caps.HasXLSX {
		r.Register(tabular.New(tabular.WithXLSX(true)))
	} else {
		r.Register(tabular.New(tabular.WithXLSX(false)))
	}
	r.Register(plaintext.New())

	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(parser driven.Parser) {
	r.parsers = append(r.parsers, parser)
}

// Parse extracts segments from the file at path.
//
// Parser failures are caught per-parser and logged - they never abort
// the cascade. A file claimed by zero parsers returns
// domain.ErrUnsupportedType so callers can tell "skip this format"
// apart from "claimed but nothing extracted".
func (r *Registry) Parse(ctx context.Context, path string) ([]domain.Segment, error) {
	ranked := r.rank(path)
	if len(ranked) == 0 {
		logger.Debug("No parser claims %s", path)
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Base(path))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return r.aggregate(ctx, path, ranked)
	}
	return r.cascade(ctx, path, ranked)
}

// rank returns the parsers claiming path, best first.
func (r *Registry) rank(path string) []driven.Parser {
	type candidate struct {
		parser driven.Parser
		score  float64
	}

	candidates := make([]candidate, 0, len(r.parsers))
	for _, p := range r.parsers {
		if score := p.CanParse(path); score > 0 {
			candidates = append(candidates, candidate{p, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].parser.Priority() > candidates[j].parser.Priority()
	})

	ranked := make([]driven.Parser, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.parser
	}
	return ranked
}

// aggregate concatenates the non-empty output of every claiming
// parser. Used for PDFs, where prose and tables are recovered by
// different extractors. When every parser failed and nothing was
// recovered, the last error is returned so the build can record it
// against the file.
func (r *Registry) aggregate(ctx context.Context, path string, ranked []driven.Parser) ([]domain.Segment, error) {
	var all []domain.Segment
	var lastErr error
	for _, p := range ranked {
		segments, err := r.tryParse(ctx, p, path)
		if err != nil {
			logger.Warn("Parser %s failed on %s: %v", p.Name(), path, err)
			lastErr = err
			continue
		}
		if len(segments) > 0 {
			logger.Debug("Parser %s: %d segments from %s", p.Name(), len(segments), path)
			all = append(all, segments...)
		}
	}
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

// cascade tries parsers in ranked order and keeps the first non-empty
// result. When every parser fails the last error is returned so the
// build can record it against the file.
func (r *Registry) cascade(ctx context.Context, path string, ranked []driven.Parser) ([]domain.Segment, error) {
	var lastErr error
	for _, p := range ranked {
		segments, err := r.tryParse(ctx, p, path)
		if err != nil {
			logger.Warn("Parser %s failed on %s: %v", p.Name(), path, err)
			lastErr = err
			continue
		}
		if len(segments) > 0 {
			logger.Debug("Parser %s: %d segments from %s", p.Name(), len(segments), path)
			return segments, nil
		}
	}
	return nil, lastErr
}

// tryParse runs one parser, converting panics into errors so a broken
// extractor cannot take down an ingestion run.
func (r *Registry) tryParse(ctx context.Context, p driven.Parser, path string) (segments []domain.Segment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			segments = nil
			err = fmt.Errorf("parser %s panicked: %v", p.Name(), rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Parse(ctx, path)
}
