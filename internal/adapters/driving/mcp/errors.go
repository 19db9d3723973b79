// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Avisearch. It lets AI assistants search the poultry document
// corpus, ask grounded questions and read official performance targets.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
