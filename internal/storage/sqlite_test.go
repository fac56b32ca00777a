package storage

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

func TestSQLiteStorage_Feedback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	fb := &models.Feedback{
		TicketID:   "t1",
		Query:      "reset my password",
		Response:   "Use the forgot-password link.",
		Similarity: 0.92,
		Helpful:    true,
		SessionID:  "s1",
	}
	if err := store.SaveFeedback(ctx, fb); err != nil {
		t.Fatal(err)
	}
	if fb.ID == 0 {
		t.Error("ID should be set after insert")
	}
	if fb.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	list, err := store.ListFeedback(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 row, got %d", len(list))
	}
	got := list[0]
	if got.Query != "reset my password" || !got.Helpful || got.SessionID != "s1" {
		t.Errorf("got %+v", got)
	}
}

func TestSQLiteStorage_FeedbackStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	stats, err := store.FeedbackStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 0 || stats.AverageSimilarity != 0 {
		t.Errorf("empty table stats: %+v", stats)
	}

	rows := []*models.Feedback{
		{TicketID: "t1", Query: "q1", Response: "r1", Similarity: 0.8, Helpful: true},
		{TicketID: "t2", Query: "q2", Response: "r2", Similarity: 0.4, Helpful: false},
		{TicketID: "t3", Query: "q3", Response: "r3", Similarity: 0.6, Helpful: true},
	}
	for _, fb := range rows {
		if err := store.SaveFeedback(ctx, fb); err != nil {
			t.Fatal(err)
		}
	}

	stats, err = store.FeedbackStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 || stats.Positive != 2 || stats.Negative != 1 {
		t.Errorf("counts: %+v", stats)
	}
	if math.Abs(stats.AverageSimilarity-0.6) > 1e-9 {
		t.Errorf("average similarity: got %v, want 0.6", stats.AverageSimilarity)
	}
}

func TestSQLiteStorage_Datasets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	ds := &models.Dataset{
		Name:        "billing-faq",
		Description: "uploaded billing FAQ pairs",
		Source:      models.CustomSource("billing-faq"),
		RecordCount: 42,
		Active:      true,
	}
	if err := store.CreateDataset(ctx, ds); err != nil {
		t.Fatal(err)
	}
	if ds.ID == 0 {
		t.Error("ID should be set after insert")
	}

	got, err := store.GetDataset(ctx, ds.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "billing-faq" || got.RecordCount != 42 || got.Source != "custom_billing-faq" {
		t.Errorf("got %+v", got)
	}

	list, err := store.ListDatasets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 dataset, got %d", len(list))
	}

	if _, err := store.GetDataset(ctx, 999); err == nil {
		t.Error("expected error for unknown dataset id")
	}
}

func TestNewSQLiteStorage_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
}
