package models

// Bucket is the confidence tier derived from thresholding the top similarity score.
type Bucket string

const (
	// BucketSmallTalk means a conversational phrase was answered with a canned reply
	// and retrieval never ran.
	BucketSmallTalk Bucket = "small_talk"
	// BucketHigh means the top match cleared the high-confidence breakpoint.
	BucketHigh Bucket = "high"
	// BucketMedium means the top match cleared the medium-confidence breakpoint.
	BucketMedium Bucket = "medium"
	// BucketLow means matches survived the floor but none cleared a breakpoint.
	BucketLow Bucket = "low"
	// BucketNone means no candidate survived the similarity floor.
	BucketNone Bucket = "none"
)

// Answer is the engine's reply to a single chat query, with the ranked candidates
// exposed for transparency and feedback loops.
type Answer struct {
	Reply     string        `json:"reply"`
	SessionID string        `json:"session_id"`
	Bucket    Bucket        `json:"bucket"`
	Results   []MatchResult `json:"results"`
}
