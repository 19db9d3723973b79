package domain

// Segment is a span of raw extracted text produced by a parser,
// before chunking and enrichment. Parsers emit one segment per
// extraction unit (a PDF page, a window of table rows, a whole
// text file).
type Segment struct {
	// Text is the extracted content.
	Text string

	// ChunkType classifies the structural kind of the content.
	ChunkType ChunkType

	// Page is the 1-based source page, zero when the format has no pages.
	Page int
}

// Chunk represents an indexed unit of document text.
// It is immutable once embedded, and owned exclusively by the index
// that contains it.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata carries source provenance and classification.
	Metadata ChunkMetadata
}
