package scoring

import (
	"context"
	"sort"
	"strings"

	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// LexicalOptions tunes the lexical scorer's boosts and cutoff.
type LexicalOptions struct {
	MinSimilarity  float64
	SubstringBoost float64
	KeywordBoost   float64
	BoostKeywords  []string
}

// LexicalScorer ranks records by token-set overlap. The score is a heuristic:
// Jaccard similarity of the normalized token sets, plus a flat boost when one
// normalized string contains the other, plus a flat increment per domain keyword
// present in both token sets. The sum is clamped to [0,1]. It is deterministic
// and explainable, not a probability; each comparison is linear in the token
// counts and a full query is linear in the corpus size.
type LexicalScorer struct {
	records  []models.Record
	opts     LexicalOptions
	keywords map[string]struct{}
}

// NewLexicalScorer builds a scorer over a fixed record snapshot.
func NewLexicalScorer(records []models.Record, opts LexicalOptions) *LexicalScorer {
	keywords := make(map[string]struct{}, len(opts.BoostKeywords))
	for _, kw := range opts.BoostKeywords {
		keywords[corpus.Normalize(kw)] = struct{}{}
	}
	return &LexicalScorer{records: records, opts: opts, keywords: keywords}
}

// Name implements Scorer.
func (s *LexicalScorer) Name() string { return "lexical" }

// Score implements Scorer. It never fails; the error return satisfies the
// interface for the vector strategy's sake.
func (s *LexicalScorer) Score(_ context.Context, query string, topK int) ([]models.MatchResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	var results []models.MatchResult
	for _, rec := range s.records {
		sim := s.Similarity(query, rec.Query)
		if sim < s.opts.MinSimilarity {
			continue
		}
		results = append(results, models.MatchResult{
			Query:      rec.Query,
			Response:   rec.Response,
			Source:     rec.Source,
			Similarity: sim,
		})
	}
	// Stable: equal scores keep corpus insertion order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Similarity scores a single query/candidate pair in [0,1].
func (s *LexicalScorer) Similarity(query, candidate string) float64 {
	normQuery := corpus.Normalize(query)
	normCand := corpus.Normalize(candidate)

	queryTokens := tokenSet(normQuery)
	candTokens := tokenSet(normCand)
	if len(queryTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	intersection := 0
	for tok := range queryTokens {
		if _, ok := candTokens[tok]; ok {
			intersection++
		}
	}
	union := len(queryTokens) + len(candTokens) - intersection
	score := 0.0
	if union > 0 {
		score = float64(intersection) / float64(union)
	}

	if strings.Contains(normCand, normQuery) || strings.Contains(normQuery, normCand) {
		score += s.opts.SubstringBoost
	}

	for kw := range s.keywords {
		if _, inQuery := queryTokens[kw]; !inQuery {
			continue
		}
		if _, inCand := candTokens[kw]; inCand {
			score += s.opts.KeywordBoost
		}
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func tokenSet(normalized string) map[string]struct{} {
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
