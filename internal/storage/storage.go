// Package storage defines the persistence interface for feedback and the
// dataset registry. The retrieval engine itself persists nothing; the server
// records what was served and how it was rated here.
package storage

import (
	"context"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// Storage defines feedback and dataset persistence operations.
type Storage interface {
	// Feedback operations
	SaveFeedback(ctx context.Context, fb *models.Feedback) error
	ListFeedback(ctx context.Context, offset, limit int) ([]*models.Feedback, error)
	FeedbackStats(ctx context.Context) (*models.FeedbackStats, error)

	// Dataset registry operations
	CreateDataset(ctx context.Context, ds *models.Dataset) error
	ListDatasets(ctx context.Context) ([]*models.Dataset, error)
	GetDataset(ctx context.Context, id int64) (*models.Dataset, error)

	Close() error
}
