package knowledge

import (
	"context"
	"errors"
)

// ErrEmbeddingFailure signals that the upstream embedding provider errored
// (timeout, auth failure, rate limit). Callers treat it as "no knowledge
// available", not as a fatal error.
var ErrEmbeddingFailure = errors.New("embedding generation failed")

// ErrStoreUnavailable signals a connectivity or query error against the
// vector store. Callers treat it identically to an empty result.
var ErrStoreUnavailable = errors.New("knowledge store unavailable")

// Embedder converts free text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore performs similarity search over the ingested corpus.
// Results are ordered descending by similarity, ties broken by ascending
// chunk id, every similarity >= threshold, at most matchCount entries.
// matchCount <= 0 or threshold > 1.0 yields an empty result, not an error.
type VectorStore interface {
	Search(ctx context.Context, embedding []float32, matchCount int, threshold float64) ([]RetrievedChunk, error)
}

// ChunkWriter is the ingestion side of the store.
type ChunkWriter interface {
	InsertChunk(ctx context.Context, chunk Chunk) error
}
