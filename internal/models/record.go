// Package models defines core data structures for corpus records, match results, and feedback.
package models

// Source identifies the origin of a corpus record.
type Source string

const (
	// SourceInternal marks records from the curated internal ticket history.
	SourceInternal Source = "internal"
	// SourceExternal marks records from the external sample dataset.
	SourceExternal Source = "external"
)

// CustomSource returns the source tag for a named custom dataset upload.
func CustomSource(name string) Source {
	return Source("custom_" + name)
}

// Record is one corpus entry: a prior support query and the response that answered it.
// Query and Response are immutable once stored; Source is set at creation and never mutated.
type Record struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Source   Source `json:"source"`
}

// RecordInput is an ingested query/response pair before it is tagged with a source.
// Field-name aliases (question/answer, complaint/response, ...) are resolved by the
// ingestion layer before a RecordInput is created.
type RecordInput struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// MatchResult is a single retrieval hit with a similarity in [0,1].
// MatchResults are transient per search call and never persisted by the engine.
type MatchResult struct {
	Query      string  `json:"query"`
	Response   string  `json:"response"`
	Source     Source  `json:"source"`
	Similarity float64 `json:"similarity"`
}
