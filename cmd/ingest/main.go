// Command ingest embeds playbook chunks and loads them into the vector store.
// It is run offline whenever the knowledge base changes; the serving path
// never writes chunks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/sashabaranov/go-openai"

	"github.com/aidomo/internal/config"
	"github.com/aidomo/internal/knowledge"
)

func main() {
	var (
		chunksFile = flag.String("chunks", "data/playbook_chunks.json", "Path to the chunk JSON file")
		source     = flag.String("source", "domo_playbook", "Source label stored with each chunk")
		pause      = flag.Duration("pause", 100*time.Millisecond, "Delay between embedding calls")
		dryRun     = flag.Bool("dry-run", false, "Embed chunks but write to memory instead of the database")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	chunks, err := knowledge.LoadSourceChunks(*chunksFile)
	if err != nil {
		log.Fatalf("Failed to load chunks: %v", err)
	}
	log.Printf("Loaded %d chunks from %s", len(chunks), *chunksFile)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	embedder := knowledge.NewOpenAIEmbedder(openai.NewClient(cfg.OpenAI.APIKey), cfg.OpenAI.EmbeddingModel)

	var writer knowledge.ChunkWriter
	if *dryRun {
		log.Printf("Dry run: chunks will not be written to the database")
		writer = knowledge.NewMemoryStore(nil)
	} else {
		pool, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		writer = knowledge.NewPgVectorStore(pool)
	}

	ingestor := knowledge.NewIngestor(embedder, writer, *source)
	ingestor.Pause = *pause

	start := time.Now()
	stored, failed := ingestor.IngestAll(ctx, chunks)
	log.Printf("Ingestion complete in %s: %d stored, %d failed", time.Since(start).Round(time.Millisecond), stored, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
