package domain

import (
	"context"
	"math"
	"time"
)

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPremium, PlanEnterprise:
		return true
	}
	return false
}

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Features are the entitlements derived from a plan.
type Features struct {
	AdFree         bool
	UnlimitedTasks bool
	AdvancedStats  bool
	CustomThemes   bool
}

// FeaturesForPlan derives feature flags deterministically from a plan.
func FeaturesForPlan(plan Plan) Features {
	return Features{
		AdFree:         plan != PlanFree,
		UnlimitedTasks: plan != PlanFree,
		AdvancedStats:  plan != PlanFree,
		CustomThemes:   plan == PlanEnterprise,
	}
}

// Subscription is the one-active-record-per-user subscription document.
type Subscription struct {
	ID        int64
	UserID    int64
	Plan      Plan
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
	PaymentID string
	Features  Features
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the subscription currently grants entitlements.
// Cancellation takes effect immediately regardless of remaining term.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.After(now)
}

// RemainingDays returns the number of days until the subscription ends,
// rounded up.
func (s *Subscription) RemainingDays(now time.Time) int {
	return int(math.Ceil(s.EndDate.Sub(now).Hours() / 24))
}

// SubscriptionRepository persists subscriptions keyed by user.
type SubscriptionRepository interface {
	GetByUser(ctx context.Context, userID int64) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	SetStatus(ctx context.Context, userID int64, status SubscriptionStatus) error
	// ExpireOverdue marks active subscriptions whose end date has passed as
	// expired and returns the number of rows changed.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
