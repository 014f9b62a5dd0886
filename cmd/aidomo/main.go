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

	"github.com/aidomo/internal/api"
	"github.com/aidomo/internal/billing"
	"github.com/aidomo/internal/completion"
	"github.com/aidomo/internal/config"
	"github.com/aidomo/internal/entitlement"
	"github.com/aidomo/internal/events"
	"github.com/aidomo/internal/knowledge"
	"github.com/aidomo/internal/prompt"
	"github.com/aidomo/internal/user"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file path (overrides CONFIG_PATH)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("aidomo version %s (commit: %s)\n", version, commit)
		return
	}

	if *configFile != "" {
		os.Setenv("CONFIG_PATH", *configFile)
	}

	log.Printf("Starting AI Domo v%s (commit: %s)", version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey)

	// Retrieval pipeline
	embedder := knowledge.NewOpenAIEmbedder(openaiClient, cfg.OpenAI.EmbeddingModel)
	store := knowledge.NewPgVectorStore(pool)
	retriever := knowledge.NewRetriever(embedder, store)

	composer := prompt.NewComposer(prompt.DefaultRules())
	completer := completion.NewInvoker(openaiClient, cfg.Completion)

	// Accounts and billing
	users := user.NewPostgresStore(pool)
	entitlements := entitlement.NewService(users, cfg.Retrieval.EntitlementCacheTTL)

	var publisher api.EventPublisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Events)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	billingService := billing.NewService(cfg.Billing, users, entitlements, publisher, events.TopicBilling)

	gateway := api.NewGateway(api.GatewayConfig{
		Host:                cfg.API.Host,
		Port:                cfg.API.Port,
		ReadTimeout:         cfg.API.ReadTimeout,
		WriteTimeout:        cfg.API.WriteTimeout,
		IdleTimeout:         cfg.API.IdleTimeout,
		EnableCORS:          cfg.API.EnableCORS,
		AllowedOrigins:      cfg.API.AllowedOrigins,
		JWTSecret:           cfg.Auth.JWTSecret,
		MatchCount:          cfg.Retrieval.MatchCount,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
	}, retriever, composer, completer, entitlements, billingService, publisher, pool)

	errCh := make(chan error, 1)
	go func() {
		errCh <- gateway.Start()
	}()

	waitForShutdown(ctx, cancel, gateway, errCh)
}

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnTimeout
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

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, gateway *api.Gateway, errCh chan error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := gateway.Stop(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
