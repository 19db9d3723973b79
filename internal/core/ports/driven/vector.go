package driven

import "context"

// VectorIndex provides nearest-neighbour search over a fixed set of
// embeddings. The reference implementation is a flat inner-product
// scan over L2-normalized vectors; any index with cosine/inner-product
// similarity satisfies the contract.
//
// Implementations must be safe for concurrent readers: indexes are
// read-only after load and shared across request handlers without
// locking.
type VectorIndex interface {
	// Search finds the k nearest neighbours to the query vector,
	// ordered by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of vectors in the index (ntotal).
	Len() int

	// Dimensions returns the vector size the index was built with.
	Dimensions() int
}

// VectorHit represents a nearest-neighbour result.
type VectorHit struct {
	// Position is the ordinal of the vector, which is also the ordinal
	// of the matching chunk in the document store.
	Position int

	// Distance is the cosine distance (1 - inner product) to the query.
	Distance float64
}
