package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWatcher_IngestsNewDatasetFile(t *testing.T) {
	dir := t.TempDir()

	var ingested []string
	var mu sync.Mutex
	onDataset := func(path string) {
		mu.Lock()
		ingested = append(ingested, path)
		mu.Unlock()
	}

	w := New(dir, onDataset, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(filepath.Join(dir, "pairs.json"), `[{"query":"q","response":"r"}]`); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "notes.txt"), "not a dataset"); err != nil {
		t.Fatal(err)
	}

	time.Sleep(400 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(ingested) != 1 || !strings.HasSuffix(ingested[0], "pairs.json") {
		t.Errorf("expected one ingest callback for pairs.json, got %v", ingested)
	}
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()

	var count int
	var mu sync.Mutex
	onDataset := func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	}

	w := New(dir, onDataset, WithDebounce(200*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "pairs.csv")
	for i := 0; i < 5; i++ {
		if err := writeFile(path, "query,response\nq,r\n"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected writes to collapse into one callback, got %d", count)
	}
}

func TestIsDatasetFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/uploads/a.json", true},
		{"/uploads/a.JSONL", true},
		{"/uploads/a.csv", true},
		{"/uploads/a.xlsx", true},
		{"/uploads/a.ndjson", true},
		{"/uploads/a.txt", false},
		{"/uploads/a.pdf", false},
		{"/uploads/noext", false},
	}
	for _, tt := range tests {
		if got := IsDatasetFile(tt.path); got != tt.want {
			t.Errorf("IsDatasetFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_SyncExisting(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "a.jsonl"), `{"query":"q","response":"r"}`); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(dir, "ignore.xyz"), "x"); err != nil {
		t.Fatal(err)
	}

	var ingested []string
	var mu sync.Mutex
	onDataset := func(path string) {
		mu.Lock()
		ingested = append(ingested, path)
		mu.Unlock()
	}
	w := New(dir, onDataset)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	w.SyncExisting()

	mu.Lock()
	defer mu.Unlock()
	if len(ingested) != 1 || !strings.HasSuffix(ingested[0], "a.jsonl") {
		t.Errorf("expected one synced file a.jsonl, got %v", ingested)
	}
}

func TestWatcher_Start_createsMissingRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "uploads")

	w := New(root, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root directory should exist after Start: %v", err)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
