package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aidomo/internal/auth"
	"github.com/aidomo/internal/completion"
	"github.com/aidomo/internal/events"
	"github.com/aidomo/internal/knowledge"
	"github.com/aidomo/pkg/models"
)

// User-visible failure replies. All are prefixed "Error:" so the UI renders
// them inline without separate error handling.
const (
	replyNotAuthenticated = "Error: Not authenticated. Please sign in."
	replyNotEntitled      = "Error: Active subscription required. Please subscribe to continue."
	replyInvalidMessages  = "Error: Invalid messages format"
	replyQuotaExceeded    = "Error: The AI provider quota has been exceeded. Please try again later."
	replyUpstreamAuth     = "Error: Invalid AI provider credentials. Please contact support."
	replyEmptyCompletion  = "Error: No response generated from AI"
)

// handleChat runs one chat request through the pipeline: authenticate,
// check entitlement, validate input, retrieve, compose, complete. Every
// failure path terminates in exactly one reply; retrieval failure is the
// single absorbed case and never fails the request.
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		writeReply(w, http.StatusUnauthorized, replyNotAuthenticated)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		writeReply(w, http.StatusBadRequest, replyInvalidMessages)
		return
	}

	status, err := g.entitlements.Check(ctx, principal.UserID)
	if err != nil {
		log.Printf("Entitlement check failed for user %s: %v", principal.UserID, err)
		writeReply(w, http.StatusInternalServerError, "Error: Unable to verify subscription. Please try again.")
		return
	}
	if !status.Active {
		writeReply(w, http.StatusForbidden, replyNotEntitled)
		return
	}

	// Retrieval degrades to empty context on any failure.
	result := knowledge.Found(nil)
	if query := models.LastUserMessage(req.Messages); query != "" {
		result = g.retriever.Retrieve(ctx, query, g.config.MatchCount, g.config.SimilarityThreshold)
		if result.Degraded {
			log.Printf("Retrieval degraded for user %s: %s", principal.UserID, result.Reason)
		} else {
			log.Printf("Retrieved %d relevant chunks from playbook", len(result.Chunks))
		}
	}
	retrievedKnowledge := knowledge.FormatForPrompt(result.Chunks)

	systemPrompt := g.composer.Compose(req.Messages, retrievedKnowledge)

	reply, err := g.completer.Complete(ctx, systemPrompt, req.Messages)
	if err != nil {
		g.publishChatEvent(principal.UserID, req, result, "", completionErrorCode(err))
		writeReply(w, completionStatus(err), completionReply(err))
		return
	}

	g.publishChatEvent(principal.UserID, req, result, reply, "")
	writeReply(w, http.StatusOK, reply)
}

func writeReply(w http.ResponseWriter, status int, reply string) {
	writeJSON(w, status, models.ChatResponse{Reply: reply})
}

func completionStatus(err error) int {
	switch {
	case errors.Is(err, completion.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, completion.ErrAuthFailure):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func completionReply(err error) string {
	switch {
	case errors.Is(err, completion.ErrQuotaExceeded):
		return replyQuotaExceeded
	case errors.Is(err, completion.ErrAuthFailure):
		return replyUpstreamAuth
	case errors.Is(err, completion.ErrEmptyCompletion):
		return replyEmptyCompletion
	default:
		return fmt.Sprintf("AI error: %v", err)
	}
}

func completionErrorCode(err error) string {
	switch {
	case errors.Is(err, completion.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, completion.ErrAuthFailure):
		return "upstream_auth"
	case errors.Is(err, completion.ErrEmptyCompletion):
		return "empty_completion"
	default:
		return "transient"
	}
}

// publishChatEvent emits a best-effort analytics record; delivery failures
// only log.
func (g *Gateway) publishChatEvent(userID string, req models.ChatRequest, result knowledge.Result, reply, errorCode string) {
	if g.events == nil {
		return
	}

	eventType := models.EventTypeChatCompleted
	if errorCode != "" {
		eventType = models.EventTypeChatFailed
	}

	event := models.ChatEvent{
		BaseEvent: models.BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			UserID:    userID,
			Source:    "chat",
		},
		MessageCount:    len(req.Messages),
		RetrievedChunks: len(result.Chunks),
		ReplyLength:     len(reply),
		ErrorCode:       errorCode,
	}
	if len(result.Chunks) > 0 {
		event.TopSimilarity = result.Chunks[0].Similarity
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.events.Publish(ctx, events.TopicChat, userID, event); err != nil {
		log.Printf("Failed to publish chat event: %v", err)
	}
}
