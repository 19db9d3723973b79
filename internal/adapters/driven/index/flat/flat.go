// Package flat implements a brute-force inner-product vector index
// over L2-normalized float32 vectors. At corpus sizes of a few
// thousand chunks per species a linear scan beats anything with an
// index-building step.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds normalized vectors in a single contiguous slice.
// Read-only after construction, so safe for concurrent searches.
type Index struct {
	dims int
	data []float32
}

// New creates an empty index for vectors of the given dimension.
func New(dims int) (*Index, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dims)
	}
	return &Index{dims: dims}, nil
}

// Add appends vectors to the index, normalizing each to unit length.
// Only valid before the index is shared with readers.
func (idx *Index) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != idx.dims {
			return fmt.Errorf("%w: vector has %d dimensions, index expects %d",
				domain.ErrInvalidInput, len(v), idx.dims)
		}
		idx.data = append(idx.data, normalize(v)...)
	}
	return nil
}

// Search scans every vector and returns the k nearest by cosine
// distance, ascending.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrInvalidInput, len(query), idx.dims)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	n := idx.Len()
	if n == 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	q := normalize(query)
	hits := make([]driven.VectorHit, 0, n)
	for i := 0; i < n; i++ {
		row := idx.data[i*idx.dims : (i+1)*idx.dims]
		var dot float64
		for j, v := range row {
			dot += float64(v) * float64(q[j])
		}
		hits = append(hits, driven.VectorHit{Position: i, Distance: 1 - dot})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits[:k], nil
}

// Len returns the number of vectors.
func (idx *Index) Len() int {
	return len(idx.data) / idx.dims
}

// Dimensions returns the vector size.
func (idx *Index) Dimensions() int {
	return idx.dims
}

// normalize returns v scaled to unit length. Zero vectors pass
// through unchanged rather than dividing by zero.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
