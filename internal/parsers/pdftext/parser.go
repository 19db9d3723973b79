// Package pdftext extracts plain text from PDF files, one segment per
// page.
package pdftext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts per-page text from PDFs.
type Parser struct{}

// New creates a PDF text parser.
func New() *Parser {
	return &Parser{}
}

// Name returns the parser name.
func (p *Parser) Name() string {
	return "pdftext"
}

// CanParse claims PDF files.
func (p *Parser) CanParse(path string) float64 {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 1.0
	}
	return 0
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 60
}

// Parse extracts one text segment per page with extractable text.
// Pages without text are skipped, not errors: mixed scanned/text PDFs
// are common.
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

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Text:      text,
			ChunkType: domain.ChunkTypeText,
			Page:      i,
		})
	}

	return segments, nil
}
