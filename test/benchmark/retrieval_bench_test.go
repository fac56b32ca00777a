package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/ishaandev07/WebDevDynamics/internal/embedding"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/internal/scoring"
	"github.com/ishaandev07/WebDevDynamics/internal/vector"
)

func benchmarkRecords(n int) []models.Record {
	topics := []string{
		"how do i reset my password for account",
		"my payment card was declined at checkout",
		"i want a refund for order number",
		"how do i cancel my subscription plan",
		"where is my order it has not arrived",
		"the mobile app keeps crashing on startup",
		"how do i export my workspace data",
		"the api key stopped working after rotation",
	}
	records := make([]models.Record, n)
	for i := 0; i < n; i++ {
		records[i] = models.Record{
			Query:    fmt.Sprintf("%s ticket %d", topics[i%len(topics)], i),
			Response: fmt.Sprintf("canned response for ticket %d", i),
			Source:   models.SourceInternal,
		}
	}
	return records
}

func BenchmarkLexicalSimilarity(b *testing.B) {
	scorer := scoring.NewLexicalScorer(nil, scoring.LexicalOptions{
		SubstringBoost: 0.3,
		KeywordBoost:   0.1,
		BoostKeywords:  []string{"password", "refund", "subscription"},
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = scorer.Similarity("cannot reset my password", "how do i reset my password for account")
	}
}

func BenchmarkLexicalScore_1000Records(b *testing.B) {
	scorer := scoring.NewLexicalScorer(benchmarkRecords(1000), scoring.LexicalOptions{
		MinSimilarity:  0.05,
		SubstringBoost: 0.3,
		KeywordBoost:   0.1,
		BoostKeywords:  []string{"password", "refund", "subscription"},
	})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = scorer.Score(ctx, "my payment card was declined", 3)
	}
}

func BenchmarkMemoryIndexSearch(b *testing.B) {
	idx, _ := vector.NewMemoryIndex(384)
	ctx := context.Background()
	vecs := make([][]float32, 1000)
	for i := 0; i < 1000; i++ {
		vecs[i] = make([]float32, 384)
		vecs[i][0] = float32(i) / 1000
	}
	_ = idx.Add(ctx, vecs)
	query := make([]float32, 384)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 10)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "my payment card was declined during checkout")
	}
}
