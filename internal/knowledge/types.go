package knowledge

import (
	"time"
)

// ChunkMetadata describes where a chunk sits in the source playbook.
// chunk_id is the stable ordering key assigned at ingestion time.
type ChunkMetadata struct {
	Section    string `json:"section"`
	Subsection string `json:"subsection,omitempty"`
	ChunkID    int    `json:"chunk_id"`
	Source     string `json:"source"`
}

// Chunk is a stored passage of the playbook with its precomputed embedding.
// Chunks are written in bulk by the offline ingestion pipeline and never
// mutated afterwards.
type Chunk struct {
	Content   string        `json:"content"`
	Embedding []float32     `json:"-"`
	Metadata  ChunkMetadata `json:"metadata"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
}

// RetrievedChunk wraps a chunk with its similarity score for one query.
// It lives for the duration of a single retrieval call.
type RetrievedChunk struct {
	Content    string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Similarity float64       `json:"similarity"`
}

// Result is the outcome of a retrieval attempt. Retrieval failures are a
// deliberate fallback path: the chat pipeline must keep going with empty
// context, so a failed attempt is Degraded, never an error.
type Result struct {
	Chunks   []RetrievedChunk
	Degraded bool
	Reason   string
}

// Found wraps a successful retrieval.
func Found(chunks []RetrievedChunk) Result {
	return Result{Chunks: chunks}
}

// Degraded marks a retrieval that failed and was absorbed.
func DegradedResult(reason string) Result {
	return Result{Degraded: true, Reason: reason}
}
