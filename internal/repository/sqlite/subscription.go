package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/focusdoro/internal/domain"
)

// SubscriptionRepository implements domain.SubscriptionRepository using SQLite.
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new SQLite-backed SubscriptionRepository.
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db.SqlDB}
}

func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID int64) (*domain.Subscription, error) {
	s := &domain.Subscription{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan, status, start_date, end_date, payment_id,
		 ad_free, unlimited_tasks, advanced_stats, custom_themes, created_at, updated_at
		 FROM subscriptions WHERE user_id = ?`, userID,
	).Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &s.StartDate, &s.EndDate, &s.PaymentID,
		&s.Features.AdFree, &s.Features.UnlimitedTasks, &s.Features.AdvancedStats,
		&s.Features.CustomThemes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query subscription: %w", err)
	}
	return s, nil
}

// Upsert writes the subscription as the user's single record, replacing
// any existing one (full replace-on-subscribe, not an additive upgrade).
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, plan, status, start_date, end_date, payment_id,
		 ad_free, unlimited_tasks, advanced_stats, custom_themes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		 plan = excluded.plan,
		 status = excluded.status,
		 start_date = excluded.start_date,
		 end_date = excluded.end_date,
		 payment_id = excluded.payment_id,
		 ad_free = excluded.ad_free,
		 unlimited_tasks = excluded.unlimited_tasks,
		 advanced_stats = excluded.advanced_stats,
		 custom_themes = excluded.custom_themes,
		 updated_at = excluded.updated_at`,
		sub.UserID, sub.Plan, sub.Status, sub.StartDate, sub.EndDate, sub.PaymentID,
		sub.Features.AdFree, sub.Features.UnlimitedTasks, sub.Features.AdvancedStats,
		sub.Features.CustomThemes, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if sub.ID == 0 {
		if id, err := result.LastInsertId(); err == nil {
			sub.ID = id
		}
	}
	sub.UpdatedAt = now
	return nil
}

func (r *SubscriptionRepository) SetStatus(ctx context.Context, userID int64, status domain.SubscriptionStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = ?, updated_at = ? WHERE user_id = ?`,
		status, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("set subscription status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = ?, updated_at = ?
		 WHERE status = ? AND end_date <= ?`,
		domain.SubscriptionExpired, now.UTC(), domain.SubscriptionActive, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}
	return result.RowsAffected()
}
