package models

import "time"

// Feedback is a relevance signal for a served match, persisted for later retraining.
type Feedback struct {
	ID         int64     `json:"id"`
	TicketID   string    `json:"ticket_id"`
	Query      string    `json:"query"`
	Response   string    `json:"response"`
	Similarity float64   `json:"similarity"`
	Helpful    bool      `json:"helpful"`
	SessionID  string    `json:"session_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedbackStats aggregates stored feedback counts and similarity.
type FeedbackStats struct {
	Total             int64   `json:"total_feedback"`
	Positive          int64   `json:"positive_feedback"`
	Negative          int64   `json:"negative_feedback"`
	AverageSimilarity float64 `json:"average_similarity"`
}

// Dataset is a registry row describing one ingested dataset.
type Dataset struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Source      Source    `json:"source"`
	RecordCount int       `json:"record_count"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Active      bool      `json:"active"`
}
