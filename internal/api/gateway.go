package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aidomo/internal/auth"
	"github.com/aidomo/internal/entitlement"
	"github.com/aidomo/internal/knowledge"
	"github.com/aidomo/pkg/models"
)

// Retriever fetches ranked playbook chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, matchCount int, threshold float64) knowledge.Result
}

// Composer assembles the system prompt.
type Composer interface {
	Compose(messages []models.Message, retrievedKnowledge string) string
}

// Completer produces the model reply for a composed prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Message) (string, error)
}

// EntitlementChecker gates access on subscription state.
type EntitlementChecker interface {
	Check(ctx context.Context, userID string) (entitlement.Status, error)
}

// BillingService handles the Stripe surface.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID, email string) (string, error)
	CreatePortalSession(ctx context.Context, userID string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// EventPublisher emits analytics events.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event interface{}) error
}

// Pinger reports datastore health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GatewayConfig represents HTTP server configuration
type GatewayConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	EnableCORS     bool
	AllowedOrigins []string
	JWTSecret      string

	// Retrieval parameters the chat pipeline uses.
	MatchCount          int
	SimilarityThreshold float64
}

// Gateway wires the HTTP surface to the chat pipeline and billing services.
type Gateway struct {
	server       *http.Server
	router       *mux.Router
	config       GatewayConfig
	retriever    Retriever
	composer     Composer
	completer    Completer
	entitlements EntitlementChecker
	billing      BillingService
	events       EventPublisher
	db           Pinger
}

func NewGateway(config GatewayConfig, retriever Retriever, composer Composer, completer Completer,
	entitlements EntitlementChecker, billing BillingService, events EventPublisher, db Pinger) *Gateway {

	router := mux.NewRouter()

	g := &Gateway{
		router:       router,
		config:       config,
		retriever:    retriever,
		composer:     composer,
		completer:    completer,
		entitlements: entitlements,
		billing:      billing,
		events:       events,
		db:           db,
	}

	g.setupMiddleware()
	g.setupRoutes()

	g.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return g
}

func (g *Gateway) setupRoutes() {
	api := g.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/chat", g.handleChat).Methods("POST")
	api.HandleFunc("/subscription", g.handleCheckSubscription).Methods("GET")
	api.HandleFunc("/billing/checkout", g.handleCreateCheckout).Methods("POST")
	api.HandleFunc("/billing/portal", g.handleCreatePortal).Methods("POST")
	api.HandleFunc("/health", g.handleHealth).Methods("GET")

	// Stripe calls this unauthenticated; signature verification is the gate.
	g.router.HandleFunc("/webhooks/stripe", g.handleStripeWebhook).Methods("POST")
}

func (g *Gateway) setupMiddleware() {
	g.router.Use(requestIDMiddleware)
	g.router.Use(securityHeadersMiddleware)
	g.router.Use(loggingMiddleware)
	g.router.Use(auth.Middleware(g.config.JWTSecret))

	if g.config.EnableCORS {
		c := cors.New(cors.Options{
			AllowedOrigins:   g.config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
			AllowCredentials: true,
		})
		g.router.Use(c.Handler)
	}
}

// Start starts the HTTP server
func (g *Gateway) Start() error {
	log.Printf("Starting API gateway on %s", g.server.Addr)
	return g.server.ListenAndServe()
}

// Stop shuts the HTTP server down gracefully
func (g *Gateway) Stop(ctx context.Context) error {
	log.Printf("Stopping API gateway")
	return g.server.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Middleware implementations

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
