package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists users in the users table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	const query = `
SELECT id, email,
       COALESCE(stripe_customer_id, ''),
       COALESCE(stripe_subscription_id, ''),
       COALESCE(subscription_status, ''),
       subscription_current_period_end,
       created_at, updated_at
FROM users WHERE id = $1`

	var u User
	err := s.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email,
		&u.StripeCustomerID, &u.StripeSubscriptionID, &u.SubscriptionStatus,
		&u.SubscriptionPeriodEnd,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}

func (s *PostgresStore) UpsertCustomer(ctx context.Context, id, email, stripeCustomerID string) error {
	const query = `
INSERT INTO users (id, email, stripe_customer_id, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE
SET email = EXCLUDED.email,
    stripe_customer_id = EXCLUDED.stripe_customer_id,
    updated_at = now()`

	if _, err := s.db.Exec(ctx, query, id, email, stripeCustomerID); err != nil {
		return fmt.Errorf("failed to upsert customer for user %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) UpdateSubscription(ctx context.Context, id string, update SubscriptionUpdate) error {
	const query = `
UPDATE users
SET stripe_subscription_id = $2,
    subscription_status = $3,
    subscription_current_period_end = $4,
    updated_at = now()
WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id, update.SubscriptionID, update.Status, update.PeriodEnd)
	if err != nil {
		return fmt.Errorf("failed to update subscription for user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
