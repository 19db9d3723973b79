package parsers

// Capabilities declares which optional extractors this build carries.
// The registry consults it once at construction; absence of a
// capability means the parser is never registered, not that errors
// are caught later.
type Capabilities struct {
	// HasPDF enables plain-text PDF extraction.
	HasPDF bool

	// HasPDFTables enables the row-geometry table detector for PDFs.
	HasPDFTables bool

	// HasXLSX enables spreadsheet parsing.
	HasXLSX bool

	// HasOCR enables scanned-page recovery. No OCR engine ships with
	// this build; the flag exists so deployments that wire one in can
	// announce it.
	HasOCR bool
}

// DefaultCapabilities returns what a stock build can do.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		HasPDF:       true,
		HasPDFTables: true,
		HasXLSX:      true,
		HasOCR:       false,
	}
}
