package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	portalsession "github.com/stripe/stripe-go/v74/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/aidomo/internal/user"
	"github.com/aidomo/pkg/models"
)

// metadataUserKey links Stripe subscriptions back to our user rows.
const metadataUserKey = "user_id"

// Config holds the Stripe credentials and price configuration. Values come
// from the environment, never from requests.
type Config struct {
	SecretKey       string `yaml:"secret_key"`
	WebhookSecret   string `yaml:"webhook_secret"`
	PriceID         string `yaml:"price_id"`
	SuccessURL      string `yaml:"success_url"`
	CancelURL       string `yaml:"cancel_url"`
	PortalReturnURL string `yaml:"portal_return_url"`
}

// EntitlementInvalidator drops cached entitlement state after a webhook
// mutates a user row.
type EntitlementInvalidator interface {
	Invalidate(userID string)
}

// EventPublisher emits billing lifecycle events for analytics.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event interface{}) error
}

type Service struct {
	config       Config
	users        user.Store
	entitlements EntitlementInvalidator
	events       EventPublisher
	eventTopic   string
}

func NewService(config Config, users user.Store, entitlements EntitlementInvalidator, events EventPublisher, eventTopic string) *Service {
	stripe.Key = config.SecretKey

	return &Service{
		config:       config,
		users:        users,
		entitlements: entitlements,
		events:       events,
		eventTopic:   eventTopic,
	}
}

// CreateCheckoutSession creates (or reuses) the Stripe customer for the user
// and returns a subscription checkout URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil && err != user.ErrNotFound {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	customerID := ""
	if u != nil {
		customerID = u.StripeCustomerID
	}

	if customerID == "" {
		params := &stripe.CustomerParams{Email: stripe.String(email)}
		params.AddMetadata(metadataUserKey, userID)

		c, err := customer.New(params)
		if err != nil {
			return "", fmt.Errorf("failed to create Stripe customer: %w", err)
		}
		customerID = c.ID

		if err := s.users.UpsertCustomer(ctx, userID, email, customerID); err != nil {
			return "", fmt.Errorf("failed to store customer id: %w", err)
		}
	}

	sess, err := checkoutsession.New(&stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.config.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.config.SuccessURL),
		CancelURL:  stripe.String(s.config.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{metadataUserKey: userID},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.publish(ctx, models.EventTypeCheckoutStarted, userID, "", "")

	return sess.URL, nil
}

// CreatePortalSession returns a Stripe billing portal URL for the user.
func (s *Service) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if u.StripeCustomerID == "" {
		return "", fmt.Errorf("user %s has no billing account", userID)
	}

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(u.StripeCustomerID),
		ReturnURL: stripe.String(s.config.PortalReturnURL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies and processes a Stripe webhook delivery.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription event: %w", err)
		}
		return s.applySubscription(ctx, &sub, string(sub.Status))

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription event: %w", err)
		}
		return s.applySubscription(ctx, &sub, "canceled")

	case "invoice.payment_succeeded":
		return s.handleInvoice(ctx, event.Data.Raw, "")

	case "invoice.payment_failed":
		return s.handleInvoice(ctx, event.Data.Raw, "past_due")

	default:
		log.Printf("Unhandled webhook event type: %s", event.Type)
	}

	return nil
}

// applySubscription writes the subscription state onto the user row and
// invalidates the cached entitlement. statusOverride, when non-empty, wins
// over the status Stripe reports (deletions arrive with stale status).
func (s *Service) applySubscription(ctx context.Context, sub *stripe.Subscription, status string) error {
	userID := sub.Metadata[metadataUserKey]
	if userID == "" {
		return fmt.Errorf("subscription %s missing %s metadata", sub.ID, metadataUserKey)
	}

	var periodEnd *time.Time
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	err := s.users.UpdateSubscription(ctx, userID, user.SubscriptionUpdate{
		SubscriptionID: sub.ID,
		Status:         status,
		PeriodEnd:      periodEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to update subscription for user %s: %w", userID, err)
	}

	if s.entitlements != nil {
		s.entitlements.Invalidate(userID)
	}

	eventType := models.EventTypeSubscriptionUpdated
	if status == "canceled" {
		eventType = models.EventTypeSubscriptionDeleted
	}
	s.publish(ctx, eventType, userID, sub.ID, status)

	log.Printf("Updated subscription for user %s: %s", userID, status)
	return nil
}

// handleInvoice resolves the subscription behind an invoice event and
// re-applies its state. statusOverride handles payment failures, where the
// subscription object may not yet reflect past_due.
func (s *Service) handleInvoice(ctx context.Context, raw json.RawMessage, statusOverride string) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(raw, &invoice); err != nil {
		return fmt.Errorf("failed to parse invoice event: %w", err)
	}
	if invoice.Subscription == nil {
		return nil
	}

	sub, err := subscription.Get(invoice.Subscription.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to retrieve subscription %s: %w", invoice.Subscription.ID, err)
	}

	status := string(sub.Status)
	if statusOverride != "" {
		status = statusOverride
	}
	return s.applySubscription(ctx, sub, status)
}

func (s *Service) publish(ctx context.Context, eventType models.EventType, userID, subscriptionID, status string) {
	if s.events == nil {
		return
	}

	event := models.SubscriptionEvent{
		BaseEvent: models.BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			UserID:    userID,
			Source:    "billing",
		},
		SubscriptionID: subscriptionID,
		Status:         status,
	}

	if err := s.events.Publish(ctx, s.eventTopic, userID, event); err != nil {
		log.Printf("Failed to publish billing event: %v", err)
	}
}
