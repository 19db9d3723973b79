// Package pdftable recovers tabular data from PDF pages using row
// geometry: runs of rows whose cells align into numeric columns are
// emitted as table segments.
package pdftable

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// minTableRows is the smallest run of aligned rows worth emitting.
const minTableRows = 3

// minNumericCells is the column count from which a row reads as tabular.
const minNumericCells = 3

var numericCell = regexp.MustCompile(`^[\d.,%°-]+$`)

// Parser detects tables in PDF pages.
type Parser struct{}

// New creates a PDF table parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return "pdftable"
}

// CanParse claims PDF files.
func (p *Parser) CanParse(path string) float64 {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 1.0
	}
	return 0
}

// Priority returns the selection priority. Higher than pdftext so
// table output sorts first in aggregated results.
func (p *Parser) Priority() int {
	return 70
}

// Parse emits one table segment per detected table region.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Segment, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var segments []domain.Segment
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		for _, table := range detectTables(rows) {
			segments = append(segments, domain.Segment{
				Text:      table,
				ChunkType: domain.ChunkTypeTable,
				Page:      i,
			})
		}
	}

	return segments, nil
}

// detectTables groups consecutive tabular rows into pipe-joined table
// blocks. A row is tabular when it has at least minNumericCells cells
// that parse as numbers, which is what performance-target tables look
// like after extraction.
func detectTables(rows pdf.Rows) []string {
	var tables []string
	var run []string

	flush := func() {
		if len(run) >= minTableRows {
			tables = append(tables, strings.Join(run, "\n"))
		}
		run = nil
	}

	for _, row := range rows {
		cells := rowCells(row)
		if isTabular(cells) {
			run = append(run, strings.Join(cells, " | "))
			continue
		}
		// A single header-like row may lead the table; keep it only
		// when a run is already forming.
		flush()
	}
	flush()

	return tables
}

// rowCells collapses a row's positioned words into cell strings,
// splitting on horizontal gaps.
func rowCells(row *pdf.Row) []string {
	var cells []string
	var current strings.Builder
	var lastEnd float64

	for _, word := range row.Content {
		gap := word.X - lastEnd
		if current.Len() > 0 && gap > word.FontSize*1.5 {
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(word.S)
		lastEnd = word.X + word.FontSize*float64(len(word.S))*0.5
	}
	if current.Len() > 0 {
		cells = append(cells, strings.TrimSpace(current.String()))
	}
	return cells
}

// isTabular reports whether cells read as a data row.
func isTabular(cells []string) bool {
	if len(cells) < minNumericCells {
		return false
	}
	numeric := 0
	for _, c := range cells {
		if c != "" && numericCell.MatchString(c) {
			numeric++
		}
	}
	return numeric >= minNumericCells
}
