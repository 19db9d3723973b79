package domain

// SearchOptions configures a search query.
type SearchOptions struct {
	// K is the maximum number of hits to return.
	K int

	// Species routes the query to a dedicated index. Empty means
	// infer from the query text.
	Species Species
}

// SearchHit represents a single scored retrieval result.
// Hits are ephemeral: produced per query, never persisted.
type SearchHit struct {
	// Text is the matched chunk content.
	Text string

	// Score is the boosted similarity in [0, 1].
	Score float64

	// Metadata is the matched chunk's metadata.
	Metadata ChunkMetadata

	// Distance is the raw index distance before conversion to similarity.
	Distance float64

	// SpeciesDetected is the species inferred from the query that
	// produced this hit, empty when inference was ambiguous.
	SpeciesDetected Species

	// SpeciesConfidence scores the inference in [0, 1].
	SpeciesConfidence float64
}
