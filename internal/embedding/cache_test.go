package embedding

import (
	"reflect"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := NewCache(2)
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss on empty cache")
	}
	c.Set("a", []float32{1})
	got, ok := c.Get("a")
	if !ok || !reflect.DeepEqual(got, []float32{1}) {
		t.Errorf("got %v, %v", got, ok)
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a") // refresh a so b is oldest
	c.Set("c", []float32{3})
	if _, ok := c.Get("b"); ok {
		t.Error("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a retained after refresh")
	}
	if c.Len() != 2 {
		t.Errorf("len: got %d", c.Len())
	}
}

func TestCache_OverwriteDoesNotGrow(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("a", []float32{9})
	if c.Len() != 1 {
		t.Errorf("len after overwrite: got %d", c.Len())
	}
	got, _ := c.Get("a")
	if got[0] != 9 {
		t.Errorf("overwrite lost: got %v", got)
	}
}
