package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidomo/internal/billing"
	"github.com/aidomo/internal/completion"
	"github.com/aidomo/internal/events"
)

// Config represents the overall application configuration
type Config struct {
	API        APIConfig         `yaml:"api"`
	Database   DatabaseConfig    `yaml:"database"`
	OpenAI     OpenAIConfig      `yaml:"openai"`
	Retrieval  RetrievalConfig   `yaml:"retrieval"`
	Completion completion.Config `yaml:"completion"`
	Billing    billing.Config    `yaml:"billing"`
	Auth       AuthConfig        `yaml:"auth"`
	Events     events.Config     `yaml:"events"`
}

// APIConfig represents HTTP server configuration
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	EnableCORS     bool          `yaml:"enable_cors"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// DatabaseConfig represents Postgres configuration
type DatabaseConfig struct {
	URL         string        `yaml:"url"`
	MaxConns    int32         `yaml:"max_conns"`
	ConnTimeout time.Duration `yaml:"conn_timeout"`
}

// OpenAIConfig represents OpenAI client configuration
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// RetrievalConfig represents the retrieval parameters the chat pipeline uses
type RetrievalConfig struct {
	MatchCount          int           `yaml:"match_count"`
	SimilarityThreshold float64       `yaml:"similarity_threshold"`
	EntitlementCacheTTL time.Duration `yaml:"entitlement_cache_ttl"`
}

// AuthConfig represents session token configuration
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Default returns the baseline configuration before file and environment
// overrides are applied.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			IdleTimeout:    120 * time.Second,
			EnableCORS:     true,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			MaxConns:    10,
			ConnTimeout: 5 * time.Second,
		},
		OpenAI: OpenAIConfig{
			EmbeddingModel: "text-embedding-3-small",
		},
		Retrieval: RetrievalConfig{
			MatchCount:          5,
			SimilarityThreshold: 0.3,
			EntitlementCacheTTL: time.Minute,
		},
		Completion: completion.DefaultConfig(),
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Events: events.DefaultConfig(),
	}
}

// Load loads configuration from the file named by CONFIG_PATH (default
// config/config.yaml, optional) and then applies environment overrides for
// secrets.
func Load() (*Config, error) {
	config := Default()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(config)

	if config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if config.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.OpenAI.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		config.Billing.SecretKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		config.Billing.WebhookSecret = v
	}
	if v := os.Getenv("STRIPE_PRICE_ID"); v != "" {
		config.Billing.PriceID = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
}
