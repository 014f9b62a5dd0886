package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// SourceChunk matches the JSON produced by the playbook chunker.
type SourceChunk struct {
	ChunkID    int    `json:"chunk_id"`
	Content    string `json:"content"`
	Section    string `json:"section"`
	Subsection string `json:"subsection"`
	WordCount  int    `json:"word_count"`
}

// Ingestor embeds source chunks and writes them to the store. It is the only
// write path into the corpus; serving traffic never mutates chunks.
type Ingestor struct {
	embedder Embedder
	writer   ChunkWriter
	source   string
	// Delay between embedding calls, to stay under provider rate limits.
	Pause time.Duration
}

func NewIngestor(embedder Embedder, writer ChunkWriter, source string) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		writer:   writer,
		source:   source,
		Pause:    100 * time.Millisecond,
	}
}

// LoadSourceChunks reads a chunk JSON file from disk.
func LoadSourceChunks(path string) ([]SourceChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks file: %w", err)
	}
	var chunks []SourceChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("failed to parse chunks file: %w", err)
	}
	return chunks, nil
}

// IngestAll embeds and stores every chunk, continuing past per-chunk
// failures. Returns the number of chunks stored and the number failed.
func (ing *Ingestor) IngestAll(ctx context.Context, chunks []SourceChunk) (stored, failed int) {
	for _, sc := range chunks {
		if err := ing.ingestOne(ctx, sc); err != nil {
			log.Printf("Failed to ingest chunk %d: %v", sc.ChunkID, err)
			failed++
		} else {
			stored++
		}

		if ing.Pause > 0 {
			select {
			case <-ctx.Done():
				return stored, failed
			case <-time.After(ing.Pause):
			}
		}
	}
	return stored, failed
}

func (ing *Ingestor) ingestOne(ctx context.Context, sc SourceChunk) error {
	embedding, err := ing.embedder.Embed(ctx, sc.Content)
	if err != nil {
		return err
	}

	return ing.writer.InsertChunk(ctx, Chunk{
		Content:   sc.Content,
		Embedding: embedding,
		Metadata: ChunkMetadata{
			Section:    sc.Section,
			Subsection: sc.Subsection,
			ChunkID:    sc.ChunkID,
			Source:     ing.source,
		},
	})
}
