package mcp

import (
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides retrieval over the document indexes.
	Search driving.SearchService

	// Answer provides grounded question answering.
	Answer driving.AnswerService

	// Performance looks up official performance-target tables.
	// Optional; the performance_target tool reports unavailability
	// when nil.
	Performance driving.PerformanceService

	// Indexes exposes index metadata for resources. Optional.
	Indexes driven.IndexStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
