package scoring

import (
	"context"
	"fmt"

	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
	"github.com/ishaandev07/WebDevDynamics/internal/embedding"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/internal/vector"
)

// VectorScorer ranks records by embedding distance against a nearest-neighbor
// index. The index is built from a corpus snapshot; every Score call verifies
// that the backing store has not moved past that snapshot's version before
// trusting the index's row positions, because a stale index would map rows to
// the wrong records.
type VectorScorer struct {
	store   *corpus.Store
	records []models.Record
	version uint64

	embedder embedding.Embedder
	index    vector.Index

	minSimilarity float64
}

// BuildVectorScorer snapshots the store, embeds every record query, and loads
// the vectors into the index. If the index already holds vectors (loaded from
// disk) its size must match the snapshot; otherwise the index is populated here.
func BuildVectorScorer(ctx context.Context, store *corpus.Store, embedder embedding.Embedder, index vector.Index, minSimilarity float64) (*VectorScorer, error) {
	records, version := store.Snapshot()

	switch index.Size() {
	case 0:
		if len(records) > 0 {
			texts := make([]string, len(records))
			for i, rec := range records {
				texts[i] = corpus.Normalize(rec.Query)
			}
			vectors, err := embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return nil, fmt.Errorf("embed corpus: %w", err)
			}
			if err := index.Add(ctx, vectors); err != nil {
				return nil, fmt.Errorf("populate index: %w", err)
			}
		}
	case len(records):
		// Pre-loaded index lines up with the snapshot row for row.
	default:
		return nil, fmt.Errorf("index holds %d vectors but corpus snapshot has %d records: %w",
			index.Size(), len(records), ErrStaleIndex)
	}

	return &VectorScorer{
		store:         store,
		records:       records,
		version:       version,
		embedder:      embedder,
		index:         index,
		minSimilarity: minSimilarity,
	}, nil
}

// Name implements Scorer.
func (s *VectorScorer) Name() string { return "vector" }

// Version reports the corpus version the index was built against.
func (s *VectorScorer) Version() uint64 { return s.version }

// Score implements Scorer. Distances convert to similarity as 1/(1+distance),
// which stays in (0,1] for any non-negative distance. Returns ErrStaleIndex if
// the corpus has changed since the index was built.
func (s *VectorScorer) Score(ctx context.Context, query string, topK int) ([]models.MatchResult, error) {
	if topK <= 0 || len(s.records) == 0 {
		return nil, nil
	}
	if v := s.store.Version(); v != s.version {
		return nil, fmt.Errorf("corpus at version %d, index built at %d: %w", v, s.version, ErrStaleIndex)
	}

	queryVec, err := s.embedder.Embed(ctx, corpus.Normalize(query))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	neighbors, err := s.index.Search(ctx, queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	results := make([]models.MatchResult, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Row < 0 || n.Row >= len(s.records) {
			return nil, fmt.Errorf("index returned row %d outside corpus of %d records: %w",
				n.Row, len(s.records), ErrStaleIndex)
		}
		sim := 1.0 / (1.0 + n.Distance)
		if sim < s.minSimilarity {
			continue
		}
		rec := s.records[n.Row]
		results = append(results, models.MatchResult{
			Query:      rec.Query,
			Response:   rec.Response,
			Source:     rec.Source,
			Similarity: sim,
		})
	}
	return results, nil
}
