package e2e

import (
	"testing"

	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
)

func TestBuildCorpus_HasPairsAndCases(t *testing.T) {
	c := BuildCorpus()
	if c.TotalPairs < 30 {
		t.Errorf("expected at least 30 pairs, got %d", c.TotalPairs)
	}
	if len(c.Pairs) != c.TotalPairs {
		t.Errorf("TotalPairs=%d does not match len(Pairs)=%d", c.TotalPairs, len(c.Pairs))
	}
	if c.TotalQueries == 0 {
		t.Fatal("expected at least one query test case")
	}
	for i, tc := range c.TestCases {
		if tc.Query == "" {
			t.Errorf("test case %d: empty query", i)
		}
		if len(tc.ExpectedQueries) == 0 {
			t.Errorf("test case %d (%q): no expected queries", i, tc.Query)
		}
	}
}

func TestBuildCorpus_PairsComplete(t *testing.T) {
	c := BuildCorpus()
	seen := make(map[string]bool)
	for i, p := range c.Pairs {
		if p.Query == "" || p.Response == "" {
			t.Errorf("pair %d: incomplete pair %+v", i, p)
		}
		norm := corpus.Normalize(p.Query)
		if seen[norm] {
			t.Errorf("pair %d: duplicate normalized query %q", i, norm)
		}
		seen[norm] = true
	}
}

func TestBuildCorpus_ExpectedQueriesExistInCorpus(t *testing.T) {
	c := BuildCorpus()
	known := make(map[string]bool)
	for _, p := range c.Pairs {
		known[p.Query] = true
	}
	for _, tc := range c.TestCases {
		for _, q := range tc.ExpectedQueries {
			if !known[q] {
				t.Errorf("case %q expects query %q which is not in the corpus", tc.Query, q)
			}
		}
	}
}

func TestExactQueryCases_NormalizeToStoredQueries(t *testing.T) {
	c := BuildCorpus()
	normToQuery := make(map[string]string)
	for _, p := range c.Pairs {
		normToQuery[corpus.Normalize(p.Query)] = p.Query
	}
	for _, tc := range ExactQueryCases() {
		stored, ok := normToQuery[corpus.Normalize(tc.Query)]
		if !ok {
			t.Errorf("exact case %q does not normalize to any corpus query", tc.Query)
			continue
		}
		if stored != tc.ExpectedQueries[0] {
			t.Errorf("exact case %q resolves to %q, want %q", tc.Query, stored, tc.ExpectedQueries[0])
		}
	}
}
