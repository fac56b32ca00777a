// Package scoring implements the two retrieval strategies: lexical token-overlap
// scoring and dense-embedding nearest-neighbor scoring. Both produce ranked
// MatchResults over a fixed corpus snapshot taken at construction time.
package scoring

import (
	"context"
	"errors"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// ErrStaleIndex is returned when a vector scorer detects that the corpus has
// changed since its index was built. Serving results from a stale index would
// map row positions to the wrong records, so the search is refused instead.
var ErrStaleIndex = errors.New("vector index is stale: corpus changed since build")

// Scorer ranks corpus records against a free-text query. Implementations score
// a snapshot of the corpus fixed at construction; a rebuilt corpus needs a new
// scorer.
type Scorer interface {
	// Score returns up to topK results with similarity at or above the
	// configured floor, sorted descending by similarity. Ties keep corpus
	// insertion order.
	Score(ctx context.Context, query string, topK int) ([]models.MatchResult, error)

	// Name identifies the strategy ("lexical" or "vector") for logging.
	Name() string
}
