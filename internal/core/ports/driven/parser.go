package driven

import (
	"context"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// Parser extracts raw text segments from a specific file format.
// Parsers are registered explicitly at startup; optional formats are
// simply absent from the registry rather than probed at use-time.
type Parser interface {
	// Name returns the parser name for logging and provider ordering.
	Name() string

	// CanParse scores how well this parser handles the file at path,
	// in [0, 1]. Zero means the file is not claimed.
	CanParse(path string) float64

	// Priority breaks ties between parsers with equal CanParse scores.
	// Format-specific parsers should return 50-89.
	// Fallback parsers should return 1-9.
	Priority() int

	// Parse extracts segments from the file.
	Parse(ctx context.Context, path string) ([]domain.Segment, error)
}

// ParserRegistry routes a file to the parsers that claim it.
//
// PDF inputs aggregate the non-empty output of every claiming parser,
// because a single PDF commonly holds both prose and tabular data that
// different extractors recover best. All other inputs cascade in
// ranked order and return the first non-empty result.
type ParserRegistry interface {
	// Parse extracts segments from the file at path.
	// A file claimed by zero parsers returns domain.ErrUnsupportedType.
	// A claimed file whose parsers all failed returns the last parser
	// error; (nil, nil) means claimed but genuinely empty.
	Parse(ctx context.Context, path string) ([]domain.Segment, error)

	// Register adds a parser to the registry.
	Register(parser Parser)
}
