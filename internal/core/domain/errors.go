package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format no parser claims.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexUnavailable indicates the index for a species could not
	// be loaded. The router treats the species as zero-hit and falls
	// back to the global index.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Index builds cannot proceed and semantic search is
	// disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGeneratorUnavailable indicates the generator (LLM) is not
	// configured. Answers degrade to retrieval-only output.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrEmptyIndex indicates a build produced zero chunks. The index
	// is still written, with a count of zero, so the failure is visible
	// to the operator rather than silent.
	ErrEmptyIndex = errors.New("index contains no documents")
)
