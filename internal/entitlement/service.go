// Package entitlement answers "may this user invoke the model?" from the
// subscription state on the user row. Any non-active status is a hard gate.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/aidomo/internal/user"
)

// Status is the entitlement view of a user's subscription.
type Status struct {
	Active    bool       `json:"active"`
	Status    string     `json:"status,omitempty"`
	PeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// Statuses that grant access. Trialing users are paid users as far as the
// gate is concerned.
var activeStatuses = map[string]bool{
	"active":   true,
	"trialing": true,
}

type Service struct {
	users user.Store
	cache *cache.Cache
}

// NewService wraps the user store with a short-TTL cache so the chat path
// does not hit the database on every message.
func NewService(users user.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		users: users,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Check returns the entitlement status for a user. An unknown user is
// simply not entitled, not an error.
func (s *Service) Check(ctx context.Context, userID string) (Status, error) {
	if cached, found := s.cache.Get(userID); found {
		return cached.(Status), nil
	}

	u, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return Status{Active: false}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("entitlement lookup failed: %w", err)
	}

	status := Status{
		Active:    activeStatuses[u.SubscriptionStatus],
		Status:    u.SubscriptionStatus,
		PeriodEnd: u.SubscriptionPeriodEnd,
	}

	s.cache.Set(userID, status, cache.DefaultExpiration)
	return status, nil
}

// Invalidate drops the cached status for a user, called after billing
// webhooks mutate the row.
func (s *Service) Invalidate(userID string) {
	s.cache.Delete(userID)
}
