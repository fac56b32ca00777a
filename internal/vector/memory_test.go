package vector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryIndex_SearchOrdering(t *testing.T) {
	ctx := context.Background()
	idx, err := NewMemoryIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	err = idx.Add(ctx, [][]float32{
		{1, 0},
		{0, 1},
		{0.9, 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}

	neighbors, err := idx.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 3 {
		t.Fatalf("got %d neighbors", len(neighbors))
	}
	if neighbors[0].Row != 0 {
		t.Errorf("closest row: got %d, want 0", neighbors[0].Row)
	}
	if neighbors[0].Distance != 0 {
		t.Errorf("exact match distance: got %v, want 0", neighbors[0].Distance)
	}
	if neighbors[1].Row != 2 {
		t.Errorf("second row: got %d, want 2", neighbors[1].Row)
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i].Distance < neighbors[i-1].Distance {
			t.Errorf("neighbors not sorted by distance: %v", neighbors)
		}
	}
}

func TestMemoryIndex_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryIndex(2)
	defer idx.Close()
	// Two identical vectors tie on distance.
	_ = idx.Add(ctx, [][]float32{{0, 1}, {1, 0}, {0, 1}})
	neighbors, err := idx.Search(ctx, []float32{0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if neighbors[0].Row != 0 || neighbors[1].Row != 2 {
		t.Errorf("tie order: got rows %d,%d, want 0,2", neighbors[0].Row, neighbors[1].Row)
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryIndex(3)
	defer idx.Close()
	if err := idx.Add(ctx, [][]float32{{1, 2}}); err == nil {
		t.Error("expected add dimension mismatch error")
	}
	if _, err := idx.Search(ctx, []float32{1, 2}, 1); err == nil {
		t.Error("expected search dimension mismatch error")
	}
}

func TestMemoryIndex_EmptyAndKClamp(t *testing.T) {
	ctx := context.Background()
	idx, _ := NewMemoryIndex(2)
	defer idx.Close()
	neighbors, err := idx.Search(ctx, []float32{1, 0}, 5)
	if err != nil || neighbors != nil {
		t.Errorf("empty index: got %v, %v", neighbors, err)
	}
	_ = idx.Add(ctx, [][]float32{{1, 0}})
	neighbors, err = idx.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 1 {
		t.Errorf("k clamp: got %d results", len(neighbors))
	}
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "idx", "vectors.bin")

	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(ctx, [][]float32{{1, 0}, {0, 1}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewMemoryIndex(2)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size: got %d", loaded.Size())
	}
	neighbors, err := loaded.Search(ctx, []float32{0, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if neighbors[0].Row != 1 {
		t.Errorf("loaded search row: got %d, want 1", neighbors[0].Row)
	}

	// Missing file leaves the index unchanged.
	fresh, _ := NewMemoryIndex(2)
	if err := fresh.Load(filepath.Join(t.TempDir(), "missing.bin")); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}

	// Dimension mismatch is rejected.
	wrongDim, _ := NewMemoryIndex(3)
	if err := wrongDim.Load(path); err == nil {
		t.Error("expected dimension mismatch on load")
	}
}

func TestMemoryIndex_LoadRejectsTruncatedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.bin")

	idx, _ := NewMemoryIndex(4)
	_ = idx.Add(ctx, [][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	// Chop off the tail of the last vector.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(path, info.Size()-6); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewMemoryIndex(4)
	if err := loaded.Load(path); err == nil {
		t.Fatal("expected error loading truncated index file")
	}
}
