package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/perftables"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"the search query to find document excerpts"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 6)"`
	Species string `json:"species,omitempty" jsonschema:"pin routing to a species: broiler, layer, breeder, duck, turkey or global"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	Source    string  `json:"source"`
	Page      int     `json:"page,omitempty"`
	Species   string  `json:"species,omitempty"`
	ChunkType string  `json:"chunk_type,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the technical question to answer"`
	Species  string `json:"species,omitempty" jsonschema:"known production category, inferred from the question when omitted"`
	Breed    string `json:"breed,omitempty" jsonschema:"known commercial line for performance-table lookups"`
	Sex      string `json:"sex,omitempty" jsonschema:"sex for performance-table lookups: male, female or as_hatched"`
	Unit     string `json:"unit,omitempty" jsonschema:"unit system for performance-table lookups: metric or imperial"`
	AgeDays  *int   `json:"age_days,omitempty" jsonschema:"bird age in days for performance-table lookups"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string           `json:"answer"`
	Source        string           `json:"source"`
	DocumentsUsed int              `json:"documents_used"`
	Warning       string           `json:"warning,omitempty"`
	Citations     []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput represents a single citation.
type CitationOutput struct {
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
}

// PerformanceInput is the input schema for the performance_target tool.
type PerformanceInput struct {
	Line    string `json:"line" jsonschema:"commercial line name, e.g. cobb 500 or ross 308"`
	AgeDays int    `json:"age_days" jsonschema:"bird age in days"`
	Sex     string `json:"sex,omitempty" jsonschema:"male, female or as_hatched (default as_hatched)"`
	Unit    string `json:"unit,omitempty" jsonschema:"metric or imperial (default metric)"`
	Nearest bool   `json:"nearest,omitempty" jsonschema:"fall back to the closest published age on an exact miss"`
}

// PerformanceOutput is the output schema for the performance_target tool.
type PerformanceOutput struct {
	Found      bool    `json:"found"`
	Line       string  `json:"line,omitempty"`
	Sex        string  `json:"sex,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	AgeDays    int     `json:"age_days,omitempty"`
	WeightG    float64 `json:"weight_g,omitempty"`
	WeightLb   float64 `json:"weight_lb,omitempty"`
	DailyGainG float64 `json:"daily_gain_g,omitempty"`
	CumFCR     float64 `json:"cum_fcr,omitempty"`
	Source     string  `json:"source,omitempty"`
	Page       int     `json:"page,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the poultry production document corpus",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a poultry production question grounded in the indexed documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "performance_target",
		Description: "Look up an official performance target (weight, gain, FCR) for a commercial line at an age",
	}, s.handlePerformance)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	species := domain.Species(input.Species)
	if species != "" && !species.Valid() {
		return nil, SearchOutput{}, fmt.Errorf("unknown species %q", input.Species)
	}

	hits, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{
		K:       input.Limit,
		Species: species,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}

	for i := range hits {
		output.Results[i] = SearchResultOutput{
			Text:      hits[i].Text,
			Score:     hits[i].Score,
			Source:    hits[i].Metadata.Source,
			Page:      hits[i].Metadata.Page,
			Species:   string(hits[i].Metadata.Species),
			ChunkType: string(hits[i].Metadata.ChunkType),
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	species := domain.Species(input.Species)
	if species != "" && !species.Valid() {
		return nil, AskOutput{}, fmt.Errorf("unknown species %q", input.Species)
	}

	ageDays := -1
	if input.AgeDays != nil {
		ageDays = *input.AgeDays
	}

	result := s.ports.Answer.Answer(ctx, input.Question, domain.AnswerContext{
		Species: species,
		Breed:   input.Breed,
		Sex:     domain.Sex(input.Sex),
		Unit:    domain.Unit(input.Unit),
		AgeDays: ageDays,
	})

	output := AskOutput{
		Answer:        result.Response,
		Source:        string(result.Source),
		DocumentsUsed: result.DocumentsUsed,
		Warning:       result.Warning,
	}
	for _, c := range result.Citations {
		output.Citations = append(output.Citations, CitationOutput{
			Source: c.Source,
			Page:   c.Page,
		})
	}

	return nil, output, nil
}

// handlePerformance handles the performance_target tool invocation.
func (s *Server) handlePerformance(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PerformanceInput,
) (*mcp.CallToolResult, PerformanceOutput, error) {
	if s.ports.Performance == nil {
		return nil, PerformanceOutput{}, fmt.Errorf("performance tables are not configured")
	}
	if input.AgeDays < 0 {
		return nil, PerformanceOutput{}, fmt.Errorf("age_days must be non-negative")
	}

	sex := perftables.CanonSex(input.Sex)
	unit := perftables.CanonUnit(input.Unit)

	rec, err := s.ports.Performance.Get(ctx, input.Line, sex, unit, input.AgeDays)
	if err != nil {
		return nil, PerformanceOutput{}, err
	}

	var note string
	if rec == nil && input.Nearest {
		rec, err = s.ports.Performance.Nearest(ctx, input.Line, sex, unit, input.AgeDays)
		if err != nil {
			return nil, PerformanceOutput{}, err
		}
		if rec != nil {
			note = fmt.Sprintf("no target published at %d days, closest published age is %d days", input.AgeDays, rec.AgeDays)
		}
	}

	if rec == nil {
		return nil, PerformanceOutput{Found: false}, nil
	}

	return nil, PerformanceOutput{
		Found:      true,
		Line:       rec.Line,
		Sex:        string(rec.Sex),
		Unit:       string(rec.Unit),
		AgeDays:    rec.AgeDays,
		WeightG:    rec.WeightG,
		WeightLb:   rec.WeightLb,
		DailyGainG: rec.DailyGainG,
		CumFCR:     rec.CumFCR,
		Source:     rec.SourceDoc,
		Page:       rec.Page,
		Note:       note,
	}, nil
}
