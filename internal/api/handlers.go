package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aidomo/internal/auth"
)

// Subscription and billing handlers. These reply with {"error": ...} on
// failure, unlike the chat surface which reuses the reply field.

func (g *Gateway) handleCheckSubscription(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"active": false})
		return
	}

	status, err := g.entitlements.Check(r.Context(), principal.UserID)
	if err != nil {
		log.Printf("Check subscription failed for user %s: %v", principal.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to check subscription")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

type createCheckoutRequest struct {
	Email string `json:"email"`
}

func (g *Gateway) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createCheckoutRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	email := req.Email
	if email == "" {
		email = principal.Email
	}
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	url, err := g.billing.CreateCheckoutSession(r.Context(), principal.UserID, email)
	if err != nil {
		log.Printf("Create checkout failed for user %s: %v", principal.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (g *Gateway) handleCreatePortal(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	url, err := g.billing.CreatePortalSession(r.Context(), principal.UserID)
	if err != nil {
		log.Printf("Create portal session failed for user %s: %v", principal.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to create portal session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (g *Gateway) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	err = g.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("Webhook handling failed: %v", err)
		writeError(w, http.StatusBadRequest, "webhook error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}

	if g.db != nil {
		if err := g.db.Ping(ctx); err != nil {
			health["status"] = "degraded"
			health["database"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "ok"
	}

	writeJSON(w, http.StatusOK, health)
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
