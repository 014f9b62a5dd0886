package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aidomo/internal/auth"
	"github.com/aidomo/internal/entitlement"
	"github.com/aidomo/internal/knowledge"
	"github.com/aidomo/pkg/models"
)

const testJWTSecret = "gateway-test-secret"

type fakeRetriever struct {
	result knowledge.Result
	calls  int
	query  string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, matchCount int, threshold float64) knowledge.Result {
	f.calls++
	f.query = query
	return f.result
}

type fakeComposer struct {
	knowledge string
}

func (f *fakeComposer) Compose(messages []models.Message, retrievedKnowledge string) string {
	f.knowledge = retrievedKnowledge
	return "SYSTEM PROMPT"
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt string, history []models.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeEntitlements struct {
	status entitlement.Status
	err    error
	calls  int
}

func (f *fakeEntitlements) Check(ctx context.Context, userID string) (entitlement.Status, error) {
	f.calls++
	return f.status, f.err
}

type fakeBilling struct {
	checkoutURL string
	portalURL   string
	err         error

	webhookPayload   []byte
	webhookSignature string
}

func (f *fakeBilling) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	return f.checkoutURL, f.err
}

func (f *fakeBilling) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	return f.portalURL, f.err
}

func (f *fakeBilling) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	f.webhookPayload = payload
	f.webhookSignature = signature
	return f.err
}

type capturedEvent struct {
	topic string
	key   string
	event interface{}
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(ctx context.Context, topic, key string, event interface{}) error {
	f.events = append(f.events, capturedEvent{topic: topic, key: key, event: event})
	return nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

// testDeps collects every fake wired into a test gateway so assertions can
// inspect them after the request.
type testDeps struct {
	retriever    *fakeRetriever
	composer     *fakeComposer
	completer    *fakeCompleter
	entitlements *fakeEntitlements
	billing      *fakeBilling
	publisher    *fakePublisher
	pinger       *fakePinger
}

func newTestGateway() (*Gateway, *testDeps) {
	deps := &testDeps{
		retriever:    &fakeRetriever{},
		composer:     &fakeComposer{},
		completer:    &fakeCompleter{reply: "Here's the move."},
		entitlements: &fakeEntitlements{status: entitlement.Status{Active: true, Status: "active"}},
		billing:      &fakeBilling{checkoutURL: "https://checkout.stripe.com/s/1", portalURL: "https://billing.stripe.com/p/1"},
		publisher:    &fakePublisher{},
		pinger:       &fakePinger{},
	}

	g := NewGateway(GatewayConfig{
		JWTSecret:           testJWTSecret,
		MatchCount:          5,
		SimilarityThreshold: 0.3,
	}, deps.retriever, deps.composer, deps.completer, deps.entitlements, deps.billing, deps.publisher, deps.pinger)

	return g, deps
}

func authHeader(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.NewToken(testJWTSecret, userID, userID+"@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, g *Gateway, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}

	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) models.ChatResponse {
	t.Helper()
	var resp models.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}
