package user

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	StripeCustomerID      string     `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID  string     `json:"stripe_subscription_id,omitempty"`
	SubscriptionStatus    string     `json:"subscription_status,omitempty"`
	SubscriptionPeriodEnd *time.Time `json:"subscription_current_period_end,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// SubscriptionUpdate is the slice of a user row the billing webhook writes.
type SubscriptionUpdate struct {
	SubscriptionID string
	Status         string
	PeriodEnd      *time.Time
}

type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
	UpsertCustomer(ctx context.Context, id, email, stripeCustomerID string) error
	UpdateSubscription(ctx context.Context, id string, update SubscriptionUpdate) error
}
