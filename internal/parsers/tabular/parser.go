// Package tabular parses CSV and XLSX performance tables into table
// segments, windowing long tables so each segment stays indexable.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// rowsPerSegment bounds a table segment. The header row is repeated
// in every window so each segment stays self-describing.
const rowsPerSegment = 40

// Parser handles CSV and, when enabled, XLSX files.
type Parser struct {
	xlsx bool
}

// Option configures the parser.
type Option func(*Parser)

// WithXLSX toggles spreadsheet support.
func WithXLSX(enabled bool) Option {
	return func(p *Parser) {
		p.xlsx = enabled
	}
}

// New creates a tabular parser.
func New(opts ...Option) *Parser {
	p := &Parser{xlsx: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return "tabular"
}

// CanParse claims CSV always, XLSX when enabled.
func (p *Parser) CanParse(path string) float64 {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return 1.0
	case ".xlsx", ".xlsm":
		if p.xlsx {
			return 1.0
		}
	}
	return 0
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 80
}

// Parse extracts windowed table segments.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Segment, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return p.parseCSV(ctx, path)
	case ".xlsx", ".xlsm":
		return p.parseXLSX(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
}

func (p *Parser) parseCSV(ctx context.Context, path string) ([]domain.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return windowRows(records), nil
}

func (p *Parser) parseXLSX(ctx context.Context, path string) ([]domain.Segment, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var segments []domain.Segment
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		segments = append(segments, windowRows(rows)...)
	}

	return segments, nil
}

// windowRows renders records into pipe-joined table segments of at
// most rowsPerSegment data rows, repeating the header in each window.
func windowRows(records [][]string) []domain.Segment {
	if len(records) == 0 {
		return nil
	}

	header := strings.Join(records[0], " | ")
	data := records[1:]
	if len(data) == 0 {
		return []domain.Segment{{Text: header, ChunkType: domain.ChunkTypeTable}}
	}

	var segments []domain.Segment
	for start := 0; start < len(data); start += rowsPerSegment {
		end := start + rowsPerSegment
		if end > len(data) {
			end = len(data)
		}

		lines := make([]string, 0, end-start+1)
		lines = append(lines, header)
		for _, row := range data[start:end] {
			lines = append(lines, strings.Join(row, " | "))
		}

		segments = append(segments, domain.Segment{
			Text:      strings.Join(lines, "\n"),
			ChunkType: domain.ChunkTypeTable,
		})
	}

	return segments
}
