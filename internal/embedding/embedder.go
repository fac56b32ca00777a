// Package embedding turns normalized support queries into dense vectors. It
// ships a deterministic mock (the default, and the test workhorse), a remote
// OpenAI-compatible HTTP client, and a local ONNX model for CGO builds, all
// behind one interface so the vector scorer never knows which is in play.
package embedding

import "context"

// Embedder produces fixed-dimension embeddings for text. Implementations must
// be safe for concurrent use and must return the same vector for the same
// input, since corpus rows and queries are embedded at different times.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
