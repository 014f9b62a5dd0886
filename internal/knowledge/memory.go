package knowledge

import (
	"context"
	"math"
	"sort"
)

// MemoryStore is an in-process VectorStore over a fixed chunk set. It backs
// local development and the ingestion dry-run mode, and mirrors the pgvector
// store's semantics exactly: cosine similarity, threshold filter, descending
// order with ascending chunk_id tie-break.
type MemoryStore struct {
	chunks []Chunk
}

func NewMemoryStore(chunks []Chunk) *MemoryStore {
	return &MemoryStore{chunks: chunks}
}

func (m *MemoryStore) Search(ctx context.Context, embedding []float32, matchCount int, threshold float64) ([]RetrievedChunk, error) {
	if matchCount <= 0 || threshold > 1.0 {
		return nil, nil
	}

	var results []RetrievedChunk
	for _, c := range m.chunks {
		sim := cosineSimilarity(embedding, c.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, RetrievedChunk{
			Content:    c.Content,
			Metadata:   c.Metadata,
			Similarity: sim,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Metadata.ChunkID < results[j].Metadata.ChunkID
	})

	if len(results) > matchCount {
		results = results[:matchCount]
	}
	return results, nil
}

func (m *MemoryStore) InsertChunk(ctx context.Context, chunk Chunk) error {
	m.chunks = append(m.chunks, chunk)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
