package knowledge

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Default retrieval parameters. Callers may override per query; the chat
// pipeline uses a wider net (5 chunks at 0.3).
const (
	DefaultMatchCount = 3
	DefaultThreshold  = 0.5
)

// Retriever orchestrates the embedder and the vector store. It holds no
// state across calls.
type Retriever struct {
	embedder Embedder
	store    VectorStore
}

func NewRetriever(embedder Embedder, store VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns ranked chunks above threshold for the query. An empty
// query short-circuits without an embedding call. Failures from either
// dependency are logged and absorbed into a Degraded result; retrieval must
// never fail the overall chat request.
func (r *Retriever) Retrieve(ctx context.Context, query string, matchCount int, threshold float64) Result {
	if strings.TrimSpace(query) == "" {
		return Found(nil)
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("Retrieval degraded, embedding failed: %v", err)
		return DegradedResult(fmt.Sprintf("embedding failed: %v", err))
	}

	chunks, err := r.store.Search(ctx, embedding, matchCount, threshold)
	if err != nil {
		log.Printf("Retrieval degraded, search failed: %v", err)
		return DegradedResult(fmt.Sprintf("search failed: %v", err))
	}

	if len(chunks) == 0 {
		log.Printf("No relevant knowledge found for query: %.50s", query)
	}
	return Found(chunks)
}

// FormatForPrompt renders retrieved chunks for injection into the system
// prompt. Pure string assembly, independently testable. Empty input yields
// the empty string.
func FormatForPrompt(chunks []RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	formatted := make([]string, len(chunks))
	for i, chunk := range chunks {
		formatted[i] = fmt.Sprintf("\nRELEVANT KNOWLEDGE FROM THE DOMO PLAYBOOK (%s):\n%s\n",
			chunk.Metadata.Section, chunk.Content)
	}

	return fmt.Sprintf(`
CONTEXT FROM YOUR KNOWLEDGE BASE:
%s

Use the above knowledge to inform your response. Apply these exact frameworks and tactics.
`, strings.Join(formatted, "\n---\n"))
}
