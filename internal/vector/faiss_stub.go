//go:build !faiss || !cgo
// +build !faiss !cgo

package vector

import (
	"context"
	"errors"
)

var errFAISSNotAvailable = errors.New("FAISS not available: build with -tags=faiss and CGO_ENABLED=1")

// FAISSIndex stub type when built without FAISS support (see faiss.go for the real implementation).
type FAISSIndex struct{}

// NewFAISSIndex returns an error when built without FAISS support.
func NewFAISSIndex(_ int) (*FAISSIndex, error) {
	return nil, errFAISSNotAvailable
}

// Add returns an error; FAISS is not compiled in.
func (f *FAISSIndex) Add(_ context.Context, _ [][]float32) error {
	return errFAISSNotAvailable
}

// Search returns an error; FAISS is not compiled in.
func (f *FAISSIndex) Search(_ context.Context, _ []float32, _ int) ([]Neighbor, error) {
	return nil, errFAISSNotAvailable
}

// Save returns an error; FAISS is not compiled in.
func (f *FAISSIndex) Save(_ string) error {
	return errFAISSNotAvailable
}

// Load returns an error; FAISS is not compiled in.
func (f *FAISSIndex) Load(_ string) error {
	return errFAISSNotAvailable
}

// Size returns 0; FAISS is not compiled in.
func (f *FAISSIndex) Size() int {
	return 0
}

// Close is a no-op for the stub.
func (f *FAISSIndex) Close() error {
	return nil
}
