// Package domain defines the core business entities for Avisearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded span of extracted document text plus metadata,
//     the unit of indexing and retrieval
//   - ChunkMetadata: Confidence-scored classification attached to a chunk
//   - SearchHit: A scored retrieval result
//   - PerformanceRecord: A row of tabular performance-target data
//   - AnswerResult: The final, always-well-formed answer envelope
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
