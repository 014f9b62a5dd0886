package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setRequiredEnv satisfies the mandatory secrets so Load can succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost/aidomo_test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("default port = %d", cfg.API.Port)
	}
	if cfg.Retrieval.MatchCount != 5 || cfg.Retrieval.SimilarityThreshold != 0.3 {
		t.Errorf("default retrieval = %+v", cfg.Retrieval)
	}
	if cfg.Completion.Model != "gpt-4o-mini" || cfg.Completion.MaxTokens != 1500 {
		t.Errorf("default completion = %+v", cfg.Completion)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("default embedding model = %q", cfg.OpenAI.EmbeddingModel)
	}
}

func TestLoadFromFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
api:
  port: 9090
retrieval:
  match_count: 7
  similarity_threshold: 0.45
  entitlement_cache_ttl: 30s
completion:
  model: gpt-4o
  max_tokens: 900
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Retrieval.MatchCount != 7 || cfg.Retrieval.SimilarityThreshold != 0.45 {
		t.Errorf("retrieval = %+v", cfg.Retrieval)
	}
	if cfg.Retrieval.EntitlementCacheTTL != 30*time.Second {
		t.Errorf("cache ttl = %v", cfg.Retrieval.EntitlementCacheTTL)
	}
	if cfg.Completion.Model != "gpt-4o" || cfg.Completion.MaxTokens != 900 {
		t.Errorf("completion = %+v", cfg.Completion)
	}
	// Untouched sections keep their defaults.
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.API.Host)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("STRIPE_SECRET_KEY", "sk_live_x")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_x")
	t.Setenv("STRIPE_PRICE_ID", "price_x")
	t.Setenv("JWT_SECRET", "jwt_x")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Billing.SecretKey != "sk_live_x" || cfg.Billing.WebhookSecret != "whsec_x" || cfg.Billing.PriceID != "price_x" {
		t.Errorf("billing env overrides not applied: %+v", cfg.Billing)
	}
	if cfg.Auth.JWTSecret != "jwt_x" {
		t.Errorf("jwt secret override not applied")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/aidomo_test")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("missing OpenAI key should fail")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("missing database url should fail")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("api: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}
