// Package chunker splits extracted text into bounded-size chunks at
// natural boundaries.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// DefaultMaxSize is the default number of bytes per chunk.
const DefaultMaxSize = 1000

// DefaultMinLength is the default minimum text length; shorter inputs
// are treated as noise and produce no chunks.
const DefaultMinLength = 50

// TableWholenessFactor bounds how far a table may exceed MaxSize and
// still be kept as a single chunk. Tables must not be split mid-row.
const TableWholenessFactor = 1.5

// boundaries are the back-off cut points, in preference order.
var boundaries = []string{". ", ".\n", "\n\n", "\n", " "}

// Chunker slices text into chunks and tags them with positional metadata.
type Chunker struct {
	maxSize   int
	minLength int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxSize sets the chunk size in bytes.
func WithMaxSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithMinLength sets the minimum input length.
func WithMinLength(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minLength = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxSize:   DefaultMaxSize,
		minLength: DefaultMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into chunks, merging base metadata into each.
// It is a pure function over its inputs: base is copied, never mutated.
// The second return value counts pieces discarded by the minimum
// length filter, so builds can report drops.
//
// Input shorter than the minimum length yields no chunks. A table no
// longer than TableWholenessFactor*maxSize is kept whole. Everything
// else is sliced greedily in windows of maxSize, backing off to the
// nearest natural boundary in the second half of the window; slices
// that come out shorter than the minimum (typically a trailing tail)
// are dropped rather than indexed.
func (c *Chunker) Chunk(text string, base domain.ChunkMetadata) ([]domain.Chunk, int) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < c.minLength {
		if trimmed == "" {
			return nil, 0
		}
		return nil, 1
	}

	if base.ChunkType == domain.ChunkTypeTable && float64(len(text)) <= TableWholenessFactor*float64(c.maxSize) {
		meta := base
		meta.ChunkIndex = 0
		meta.ChunkStart = 0
		meta.ChunkEnd = len(trimmed)
		meta.ChunkLength = len(trimmed)
		return []domain.Chunk{{
			ID:       uuid.New().String(),
			Text:     trimmed,
			Metadata: meta,
		}}, 0
	}

	chunks := make([]domain.Chunk, 0, len(text)/c.maxSize+1)
	start := 0
	index := 0
	dropped := 0

	for start < len(text) {
		end := c.cutPoint(text, start)
		piece := text[start:end]

		if len(strings.TrimSpace(piece)) < c.minLength {
			if strings.TrimSpace(piece) != "" {
				dropped++
			}
			start = end
			continue
		}

		meta := base
		meta.ChunkIndex = index
		meta.ChunkStart = start
		meta.ChunkEnd = end
		meta.ChunkLength = end - start

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Text:     piece,
			Metadata: meta,
		})

		start = end
		index++
	}

	return chunks, dropped
}

// cutPoint returns the end offset of the chunk starting at start.
// When the window boundary falls inside a word it backs off to the
// latest natural boundary found within [start+maxSize/2, start+maxSize];
// if none exists the cut is hard at maxSize, aligned to a rune start.
func (c *Chunker) cutPoint(text string, start int) int {
	limit := start + c.maxSize
	if limit >= len(text) {
		return len(text)
	}

	half := start + c.maxSize/2
	window := text[half:limit]

	for _, b := range boundaries {
		if idx := strings.LastIndex(window, b); idx >= 0 {
			return half + idx + len(b)
		}
	}

	// Hard cut; never split a multi-byte rune.
	for limit > start && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return limit
}
