// Package corpus holds the merged set of support query/response records that
// retrieval scores against.
package corpus

import (
	"strings"
	"sync"
	"unicode"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// Normalize lower-cases text, strips characters that are not word characters or
// whitespace, and collapses runs of whitespace. Every comparison in the retrieval
// path goes through this first.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the whitespace-split words of the normalized form of text.
func Tokens(text string) []string {
	norm := Normalize(text)
	if norm == "" {
		return nil
	}
	return strings.Fields(norm)
}

// Store is the in-memory corpus of records merged from all sources. Insertion
// order is preserved; duplicate query text across sources is allowed, and both
// copies stay retrievable. Version increments on every successful append so the
// vector index can be fenced against stale corpus states.
type Store struct {
	mu      sync.RWMutex
	records []models.Record
	version uint64
}

// NewStore returns an empty corpus store.
func NewStore() *Store {
	return &Store{}
}

// AddRecords appends the given inputs under one source tag and returns the number
// accepted. Records with an empty query or response after trimming are silently
// skipped; the count is the only feedback signal.
func (s *Store) AddRecords(inputs []models.RecordInput, source models.Source) int {
	added := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range inputs {
		q := strings.TrimSpace(in.Query)
		r := strings.TrimSpace(in.Response)
		if q == "" || r == "" {
			continue
		}
		s.records = append(s.records, models.Record{Query: q, Response: r, Source: source})
		added++
	}
	if added > 0 {
		s.version++
	}
	return added
}

// All returns a copied snapshot of the records, safe to iterate while other
// goroutines append.
func (s *Store) All() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Snapshot returns a copied record slice together with the version it was taken
// at. A vector index built from this snapshot is only valid for this version.
func (s *Store) Snapshot() ([]models.Record, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out, s.version
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Version returns the current corpus version. It increments whenever records are
// appended.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
