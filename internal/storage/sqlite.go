// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticket_id TEXT NOT NULL,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		similarity REAL NOT NULL,
		helpful INTEGER NOT NULL,
		session_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
	CREATE INDEX IF NOT EXISTS idx_feedback_session_id ON feedback(session_id);

	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		source TEXT NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_datasets_uploaded_at ON datasets(uploaded_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveFeedback inserts a feedback row and fills in its generated ID and timestamp.
func (s *SQLiteStorage) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	fb.CreatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (ticket_id, query, response, similarity, helpful, session_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fb.TicketID, fb.Query, fb.Response, fb.Similarity, fb.Helpful, fb.SessionID, fb.CreatedAt,
	)
	if err != nil {
		return err
	}
	fb.ID, err = result.LastInsertId()
	return err
}

// ListFeedback returns feedback rows newest first, with offset and limit.
func (s *SQLiteStorage) ListFeedback(ctx context.Context, offset, limit int) ([]*models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ticket_id, query, response, similarity, helpful, session_id, created_at
		 FROM feedback ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Feedback
	for rows.Next() {
		var fb models.Feedback
		var sessionID sql.NullString
		if err := rows.Scan(&fb.ID, &fb.TicketID, &fb.Query, &fb.Response, &fb.Similarity, &fb.Helpful, &sessionID, &fb.CreatedAt); err != nil {
			return nil, err
		}
		fb.SessionID = sessionID.String
		items = append(items, &fb)
	}
	return items, rows.Err()
}

// FeedbackStats aggregates counts and the mean similarity over stored feedback.
func (s *SQLiteStorage) FeedbackStats(ctx context.Context) (*models.FeedbackStats, error) {
	var stats models.FeedbackStats
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN helpful THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN helpful THEN 0 ELSE 1 END), 0),
		        AVG(similarity)
		 FROM feedback`,
	).Scan(&stats.Total, &stats.Positive, &stats.Negative, &avg)
	if err != nil {
		return nil, err
	}
	stats.AverageSimilarity = avg.Float64
	return &stats, nil
}

// CreateDataset inserts a dataset registry row and fills in its generated ID and timestamp.
func (s *SQLiteStorage) CreateDataset(ctx context.Context, ds *models.Dataset) error {
	ds.UploadedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO datasets (name, description, source, record_count, uploaded_at, active)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ds.Name, ds.Description, string(ds.Source), ds.RecordCount, ds.UploadedAt, ds.Active,
	)
	if err != nil {
		return err
	}
	ds.ID, err = result.LastInsertId()
	return err
}

// ListDatasets returns all registered datasets, newest first.
func (s *SQLiteStorage) ListDatasets(ctx context.Context) ([]*models.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, source, record_count, uploaded_at, active
		 FROM datasets ORDER BY uploaded_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Dataset
	for rows.Next() {
		var ds models.Dataset
		var description sql.NullString
		var source string
		if err := rows.Scan(&ds.ID, &ds.Name, &description, &source, &ds.RecordCount, &ds.UploadedAt, &ds.Active); err != nil {
			return nil, err
		}
		ds.Description = description.String
		ds.Source = models.Source(source)
		items = append(items, &ds)
	}
	return items, rows.Err()
}

// GetDataset returns a dataset registry row by ID.
func (s *SQLiteStorage) GetDataset(ctx context.Context, id int64) (*models.Dataset, error) {
	var ds models.Dataset
	var description sql.NullString
	var source string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, source, record_count, uploaded_at, active
		 FROM datasets WHERE id = ?`, id,
	).Scan(&ds.ID, &ds.Name, &description, &source, &ds.RecordCount, &ds.UploadedAt, &ds.Active)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	ds.Description = description.String
	ds.Source = models.Source(source)
	return &ds, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
