// Package pdfhealth scores PDF extractability before ingestion.
//
// The score is recorded for audit and provider selection; it is never
// used to silently drop files.
package pdfhealth

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Status classifies a scanned PDF.
type Status string

// Statuses, roughly ordered from best to worst.
const (
	StatusHighQuality     Status = "high_quality"
	StatusOK              Status = "ok"
	StatusLowQuality      Status = "low_quality"
	StatusLikelyScanned   Status = "likely_scanned"
	StatusRedactionAnnots Status = "redaction_annots"
	StatusCopyRestricted  Status = "copy_restricted"
	StatusEncrypted       Status = "encrypted"
)

// Score weights. Text coverage dominates: a PDF we cannot read text
// from is a PDF we cannot index.
const (
	weightTextCoverage = 0.40
	weightTextLength   = 0.30
	weightImageBalance = 0.20
	weightTechnical    = 0.10
)

// minPageText is the extracted length under which a page does not
// count as a text page.
const minPageText = 50

// avgTextTarget normalizes average page-text length into [0,1].
const avgTextTarget = 1000.0

// Report is the result of scanning one PDF.
type Report struct {
	Path   string
	Score  float64
	Status Status

	PageCount      int
	TextPages      int
	ImageOnlyPages int
	AvgTextLen     float64
	RedactAnnots   int
	Encrypted      bool
	CopyRestricted bool
}

// Scan scores the PDF at path.
func Scan(path string) Report {
	report := Report{Path: path}

	f, reader, err := pdf.Open(path)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypt") {
			report.Status = StatusEncrypted
			report.Encrypted = true
		} else {
			report.Status = StatusLowQuality
		}
		return report
	}
	defer f.Close()

	if !reader.Trailer().Key("Encrypt").IsNull() {
		// Openable but carries an encryption dictionary: extraction
		// permissions may be restricted.
		report.CopyRestricted = true
	}

	report.PageCount = reader.NumPage()
	var totalText int

	for i := 1; i <= report.PageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		textLen := 0
		if err == nil {
			textLen = len(strings.TrimSpace(text))
		}
		totalText += textLen

		hasText := textLen >= minPageText
		if hasText {
			report.TextPages++
		}
		if pageHasImage(page) && !hasText {
			report.ImageOnlyPages++
		}

		report.RedactAnnots += countRedactAnnots(page)
	}

	if report.PageCount > 0 {
		report.AvgTextLen = float64(totalText) / float64(report.PageCount)
	}

	report.Score = score(report)
	report.Status = classify(report)
	return report
}

// score combines the four weighted quality factors.
func score(r Report) float64 {
	if r.PageCount == 0 {
		return 0
	}

	coverage := float64(r.TextPages) / float64(r.PageCount)

	textLen := r.AvgTextLen / avgTextTarget
	if textLen > 1 {
		textLen = 1
	}

	imageBalance := 1 - float64(r.ImageOnlyPages)/float64(r.PageCount)

	technical := 1.0
	if r.RedactAnnots > 0 {
		technical -= 0.5
	}
	if r.CopyRestricted {
		technical -= 0.5
	}
	if technical < 0 {
		technical = 0
	}

	return weightTextCoverage*coverage +
		weightTextLength*textLen +
		weightImageBalance*imageBalance +
		weightTechnical*technical
}

func classify(r Report) Status {
	switch {
	case r.Encrypted:
		return StatusEncrypted
	case r.RedactAnnots > 0:
		return StatusRedactionAnnots
	case r.CopyRestricted:
		return StatusCopyRestricted
	case r.PageCount > 0 &&
		float64(r.TextPages)/float64(r.PageCount) < 0.2 &&
		float64(r.ImageOnlyPages)/float64(r.PageCount) > 0.5:
		return StatusLikelyScanned
	case r.Score >= 0.8:
		return StatusHighQuality
	case r.Score >= 0.5:
		return StatusOK
	default:
		return StatusLowQuality
	}
}

// pageHasImage reports whether the page's resources reference an
// image XObject.
func pageHasImage(page pdf.Page) bool {
	xobjects := page.V.Key("Resources").Key("XObject")
	if xobjects.IsNull() {
		return false
	}
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			return true
		}
	}
	return false
}

// countRedactAnnots counts redaction annotations on the page.
func countRedactAnnots(page pdf.Page) int {
	annots := page.V.Key("Annots")
	if annots.IsNull() {
		return 0
	}
	count := 0
	for i := 0; i < annots.Len(); i++ {
		if annots.Index(i).Key("Subtype").Name() == "Redact" {
			count++
		}
	}
	return count
}
