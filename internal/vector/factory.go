package vector

import "fmt"

// IndexType names an index implementation as it appears in config.
type IndexType string

const (
	// IndexTypeMemory is brute-force in-memory search. Support corpora are
	// typically a few thousand queries, well inside its comfort zone, so it
	// is the default.
	IndexTypeMemory IndexType = "memory"
	// IndexTypeFAISS needs the faiss build tag and the FAISS C library.
	// Worth it only for corpora far beyond what memory search handles.
	IndexTypeFAISS IndexType = "faiss"
)

// NewIndex builds an empty index of the configured type. An empty type falls
// back to memory.
func NewIndex(indexType string, dimensions int) (Index, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	case IndexTypeFAISS:
		return NewFAISSIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index type %q (supported: memory, faiss)", indexType)
	}
}

// IsFAISSAvailable reports whether FAISS support is compiled in.
func IsFAISSAvailable() bool {
	idx, err := NewFAISSIndex(1)
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
