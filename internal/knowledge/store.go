package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgVectorStore searches the knowledge_chunks table using pgvector cosine
// distance. Ordering is similarity descending with chunk_id ascending as the
// tie-break, so identical corpora always return identical result orders.
type PgVectorStore struct {
	db Querier
}

func NewPgVectorStore(db Querier) *PgVectorStore {
	return &PgVectorStore{db: db}
}

const searchQuery = `
SELECT content, section, subsection, chunk_id, source,
       1 - (embedding <=> $1) AS similarity
FROM knowledge_chunks
WHERE 1 - (embedding <=> $1) >= $2
ORDER BY similarity DESC, chunk_id ASC
LIMIT $3`

func (s *PgVectorStore) Search(ctx context.Context, embedding []float32, matchCount int, threshold float64) ([]RetrievedChunk, error) {
	if matchCount <= 0 || threshold > 1.0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, searchQuery, pgvector.NewVector(embedding), threshold, matchCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var chunks []RetrievedChunk
	for rows.Next() {
		var c RetrievedChunk
		if err := rows.Scan(&c.Content, &c.Metadata.Section, &c.Metadata.Subsection,
			&c.Metadata.ChunkID, &c.Metadata.Source, &c.Similarity); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return chunks, nil
}

const insertQuery = `
INSERT INTO knowledge_chunks (chunk_id, content, embedding, section, subsection, source)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (chunk_id) DO UPDATE
SET content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    section = EXCLUDED.section,
    subsection = EXCLUDED.subsection,
    source = EXCLUDED.source`

// InsertChunk upserts one ingested chunk. Only the offline ingestion path
// writes; the serving path is read-only.
func (s *PgVectorStore) InsertChunk(ctx context.Context, chunk Chunk) error {
	_, err := s.db.Exec(ctx, insertQuery,
		chunk.Metadata.ChunkID,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
		chunk.Metadata.Section,
		chunk.Metadata.Subsection,
		chunk.Metadata.Source,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
