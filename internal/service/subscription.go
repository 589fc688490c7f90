package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/msomdec/focusdoro/internal/domain"
)

// SubscriptionService is the entitlement gate: it holds plan state with
// expiry and answers feature-flag queries for the rest of the app.
type SubscriptionService struct {
	subs     domain.SubscriptionRepository
	payments *PaymentProcessor
	locks    *userLocks
	cron     *cron.Cron
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subs domain.SubscriptionRepository, payments *PaymentProcessor) *SubscriptionService {
	return &SubscriptionService{
		subs:     subs,
		payments: payments,
		locks:    newUserLocks(),
	}
}

// StatusInfo is the answer to an entitlement query.
type StatusInfo struct {
	HasSubscription bool
	Plan            domain.Plan
	Status          domain.SubscriptionStatus
	RemainingDays   int
	Features        domain.Features
}

// Status returns the user's current entitlements. A user with no record
// is on the free plan with every feature off.
func (s *SubscriptionService) Status(ctx context.Context, userID int64) (*StatusInfo, error) {
	sub, err := s.subs.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &StatusInfo{Plan: domain.PlanFree}, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	now := time.Now()
	return &StatusInfo{
		HasSubscription: sub.IsActive(now),
		Plan:            sub.Plan,
		Status:          sub.Status,
		RemainingDays:   sub.RemainingDays(now),
		Features:        sub.Features,
	}, nil
}

// Subscribe writes the user's subscription record: premium runs one month,
// enterprise one year, anything else a 30-day trial. Features derive from
// the plan. Re-subscribing replaces the record and restarts the term from
// now; it does not extend an existing one. An empty paymentID is filled by
// the simulated payment processor.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, plan domain.Plan, paymentID string) (*domain.Subscription, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidInput, plan)
	}

	if paymentID == "" {
		ref, err := s.payments.Charge(ctx, userID, plan)
		if err != nil {
			return nil, fmt.Errorf("charge payment: %w", err)
		}
		paymentID = ref
	}

	now := time.Now().UTC()
	var endDate time.Time
	switch plan {
	case domain.PlanPremium:
		endDate = now.AddDate(0, 1, 0)
	case domain.PlanEnterprise:
		endDate = now.AddDate(1, 0, 0)
	default:
		endDate = now.AddDate(0, 0, 30)
	}

	sub := &domain.Subscription{
		UserID:    userID,
		Plan:      plan,
		Status:    domain.SubscriptionActive,
		StartDate: now,
		EndDate:   endDate,
		PaymentID: paymentID,
		Features:  domain.FeaturesForPlan(plan),
	}

	unlock := s.locks.Acquire(userID)
	defer unlock()

	if err := s.subs.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	return sub, nil
}

// Cancel sets the subscription status to cancelled. End date and features
// are left untouched, but IsActive flips false immediately: cancellation
// takes effect now, not at end of term.
func (s *SubscriptionService) Cancel(ctx context.Context, userID int64) (*domain.Subscription, error) {
	unlock := s.locks.Acquire(userID)
	defer unlock()

	if err := s.subs.SetStatus(ctx, userID, domain.SubscriptionCancelled); err != nil {
		return nil, err
	}
	return s.subs.GetByUser(ctx, userID)
}

// StartExpirySweep schedules a recurring job that marks overdue active
// subscriptions as expired. The sweep is bookkeeping only: IsActive never
// trusts status alone, so entitlements are correct with or without it.
func (s *SubscriptionService) StartExpirySweep(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		n, err := s.subs.ExpireOverdue(context.Background(), time.Now())
		if err != nil {
			slog.Error("subscription expiry sweep", "error", err)
			return
		}
		if n > 0 {
			slog.Info("subscriptions expired", "count", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

// StopExpirySweep stops the sweep scheduler.
func (s *SubscriptionService) StopExpirySweep() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
