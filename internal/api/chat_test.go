package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/aidomo/internal/completion"
	"github.com/aidomo/internal/entitlement"
	"github.com/aidomo/internal/knowledge"
	"github.com/aidomo/pkg/models"
)

func chatBody(contents ...string) models.ChatRequest {
	var messages []models.Message
	for _, c := range contents {
		messages = append(messages, models.Message{Role: models.RoleUser, Content: c})
	}
	return models.ChatRequest{Messages: messages}
}

func TestChatUnauthenticated(t *testing.T) {
	g, deps := newTestGateway()

	rec := doJSON(t, g, "POST", "/api/v1/chat", "", chatBody("hello"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeReply(t, rec).Reply; got != replyNotAuthenticated {
		t.Errorf("reply = %q", got)
	}
	if deps.entitlements.calls != 0 {
		t.Error("entitlement should not be checked for unauthenticated requests")
	}
}

func TestChatEmptyMessages(t *testing.T) {
	g, deps := newTestGateway()

	rec := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), models.ChatRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeReply(t, rec).Reply; got != replyInvalidMessages {
		t.Errorf("reply = %q", got)
	}
	// Malformed input must short-circuit before any external call.
	if deps.entitlements.calls != 0 || deps.retriever.calls != 0 || deps.completer.calls != 0 {
		t.Error("invalid body should not reach entitlement, retrieval, or completion")
	}
}

func TestChatMalformedJSON(t *testing.T) {
	g, _ := newTestGateway()

	req := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), "not an object")
	if req.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", req.Code)
	}
}

func TestChatNotEntitled(t *testing.T) {
	g, deps := newTestGateway()
	deps.entitlements.status = entitlement.Status{Active: false, Status: "canceled"}

	rec := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("hello"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := decodeReply(t, rec).Reply; got != replyNotEntitled {
		t.Errorf("reply = %q", got)
	}
	if deps.completer.calls != 0 {
		t.Error("unentitled request should not reach completion")
	}
}

func TestChatEntitlementFailure(t *testing.T) {
	g, deps := newTestGateway()
	deps.entitlements.err = fmt.Errorf("db down")

	rec := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("hello"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestChatSuccess(t *testing.T) {
	g, deps := newTestGateway()
	deps.retriever.result = knowledge.Found([]knowledge.RetrievedChunk{
		{Content: "mirror her energy", Metadata: knowledge.ChunkMetadata{Section: "Texting", ChunkID: 1}, Similarity: 0.8},
	})

	rec := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("she stopped replying"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := decodeReply(t, rec).Reply; got != "Here's the move." {
		t.Errorf("reply = %q", got)
	}
	if deps.retriever.query != "she stopped replying" {
		t.Errorf("retriever queried with %q", deps.retriever.query)
	}
	if !strings.Contains(deps.composer.knowledge, "mirror her energy") {
		t.Error("retrieved chunk should flow into the composer")
	}
}

func TestChatRetrievesLastUserMessage(t *testing.T) {
	g, deps := newTestGateway()

	body := models.ChatRequest{Messages: []models.Message{
		{Role: models.RoleUser, Content: "first question"},
		{Role: models.RoleAssistant, Content: "first answer"},
		{Role: models.RoleUser, Content: "follow-up question"},
	}}
	doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), body)

	if deps.retriever.query != "follow-up question" {
		t.Errorf("retrieval should use the latest user turn, got %q", deps.retriever.query)
	}
}

func TestChatDegradedRetrievalStillSucceeds(t *testing.T) {
	g, deps := newTestGateway()
	deps.retriever.result = knowledge.DegradedResult("embedding failed: timeout")

	rec := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("hello"))
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded retrieval must not fail the request, got %d", rec.Code)
	}
	if deps.composer.knowledge != "" {
		t.Errorf("degraded retrieval should compose with empty knowledge, got %q", deps.composer.knowledge)
	}
	if deps.completer.calls != 1 {
		t.Error("completion should still run after degraded retrieval")
	}
}

func TestChatCompletionErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReply  string
	}{
		{"quota exceeded", completion.ErrQuotaExceeded, http.StatusTooManyRequests, replyQuotaExceeded},
		{"upstream auth", completion.ErrAuthFailure, http.StatusUnauthorized, replyUpstreamAuth},
		{"empty completion", completion.ErrEmptyCompletion, http.StatusInternalServerError, replyEmptyCompletion},
		{"transient", completion.ErrTransient, http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, deps := newTestGateway()
			deps.completer.err = tt.err

			rec := doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("hello"))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			reply := decodeReply(t, rec).Reply
			if tt.wantReply != "" && reply != tt.wantReply {
				t.Errorf("reply = %q, want %q", reply, tt.wantReply)
			}
			if tt.wantReply == "" && !strings.HasPrefix(reply, "AI error:") {
				t.Errorf("transient failure reply = %q", reply)
			}
		})
	}
}

func TestChatPublishesCompletedEvent(t *testing.T) {
	g, deps := newTestGateway()

	doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("hello"))

	if len(deps.publisher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(deps.publisher.events))
	}
	got := deps.publisher.events[0]
	if got.key != "u1" {
		t.Errorf("event key = %q, want user id", got.key)
	}
	event, ok := got.event.(models.ChatEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", got.event)
	}
	if event.Type != models.EventTypeChatCompleted {
		t.Errorf("event type = %q", event.Type)
	}
	if event.MessageCount != 1 {
		t.Errorf("message count = %d", event.MessageCount)
	}
}

func TestChatPublishesFailedEvent(t *testing.T) {
	g, deps := newTestGateway()
	deps.completer.err = completion.ErrQuotaExceeded

	doJSON(t, g, "POST", "/api/v1/chat", authHeader(t, "u1"), chatBody("hello"))

	if len(deps.publisher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(deps.publisher.events))
	}
	event, ok := deps.publisher.events[0].event.(models.ChatEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", deps.publisher.events[0].event)
	}
	if event.Type != models.EventTypeChatFailed {
		t.Errorf("event type = %q", event.Type)
	}
	if event.ErrorCode != "quota_exceeded" {
		t.Errorf("error code = %q", event.ErrorCode)
	}
}
