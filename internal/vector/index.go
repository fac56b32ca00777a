// Package vector provides nearest-neighbor index implementations for embedded
// corpus queries.
package vector

import "context"

// Neighbor is a single nearest-neighbor hit: the row position of the vector in
// the order it was added, and its squared L2 distance to the query (the FAISS
// flat-index convention; the in-memory index matches it).
type Neighbor struct {
	Row      int
	Distance float64
}

// Index is a nearest-neighbor structure built once from the embedded form of a
// corpus snapshot. Row numbering follows insertion order, so row i addresses
// record i of the snapshot the index was built from. Reflecting corpus changes
// requires building a fresh index; there is no incremental update.
type Index interface {
	Add(ctx context.Context, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]Neighbor, error)
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}
