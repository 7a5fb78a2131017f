package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UserRecord is one account with its plan and monthly usage counter.
type UserRecord struct {
	ID                   int64
	Email                string
	Name                 string
	Plan                 string
	StripeCustomerID     string
	StripeSubscriptionID string
	StoriesThisMonth     int
	UsageMonth           string
	CreatedAt            time.Time
}

func usageMonth(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// EnsureUser returns the user with the given email, creating a free-plan
// account when none exists.
func (s *Store) EnsureUser(ctx context.Context, email, name string) (*UserRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("user email is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (email, name, plan, usage_month, created_at)
		VALUES (?, ?, 'free', ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, email, name, usageMonth(time.Now()), time.Now().UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.GetUserByEmail(ctx, email)
}

// GetUserByEmail fetches a user by email. Returns (nil, nil) when unknown.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.getUser(ctx, `SELECT id, email, name, plan, stripe_customer_id, stripe_subscription_id,
		stories_this_month, usage_month, created_at FROM users WHERE email = ?`, email)
}

// GetUserByStripeCustomer fetches a user by Stripe customer ID. Returns
// (nil, nil) when unknown.
func (s *Store) GetUserByStripeCustomer(ctx context.Context, customerID string) (*UserRecord, error) {
	return s.getUser(ctx, `SELECT id, email, name, plan, stripe_customer_id, stripe_subscription_id,
		stories_this_month, usage_month, created_at FROM users WHERE stripe_customer_id = ?`, customerID)
}

func (s *Store) getUser(ctx context.Context, query, key string) (*UserRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("user lookup key is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var (
		rec            UserRecord
		name           sql.NullString
		customerID     sql.NullString
		subscriptionID sql.NullString
		createdAt      int64
	)

	row := s.DB.QueryRowContext(ctx, query, key)
	if err := row.Scan(&rec.ID, &rec.Email, &name, &rec.Plan, &customerID, &subscriptionID,
		&rec.StoriesThisMonth, &rec.UsageMonth, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	rec.Name = name.String
	rec.StripeCustomerID = customerID.String
	rec.StripeSubscriptionID = subscriptionID.String
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()

	// A stale month anchor means the counter belongs to a previous
	// billing month and reads as zero.
	if rec.UsageMonth != usageMonth(time.Now()) {
		rec.StoriesThisMonth = 0
	}

	return &rec, nil
}

// SetPlan updates a user's plan by email.
func (s *Store) SetPlan(ctx context.Context, email, plan string) error {
	return s.execUserUpdate(ctx, `UPDATE users SET plan = ? WHERE email = ?`, plan, strings.ToLower(strings.TrimSpace(email)))
}

// SetPlanByStripeCustomer updates the plan for the account linked to a
// Stripe customer.
func (s *Store) SetPlanByStripeCustomer(ctx context.Context, customerID, plan string) error {
	return s.execUserUpdate(ctx, `UPDATE users SET plan = ? WHERE stripe_customer_id = ?`, plan, customerID)
}

// LinkStripeSubscription records the Stripe customer and subscription IDs
// for a user.
func (s *Store) LinkStripeSubscription(ctx context.Context, email, customerID, subscriptionID string) error {
	return s.execUserUpdate(ctx, `UPDATE users SET stripe_customer_id = ?, stripe_subscription_id = ? WHERE email = ?`,
		customerID, subscriptionID, strings.ToLower(strings.TrimSpace(email)))
}

// ClearStripeSubscription drops the subscription link and returns the
// account to the free plan. Used when a subscription is cancelled.
func (s *Store) ClearStripeSubscription(ctx context.Context, customerID string) error {
	return s.execUserUpdate(ctx, `UPDATE users SET plan = 'free', stripe_subscription_id = NULL WHERE stripe_customer_id = ?`, customerID)
}

// RecordStoryUse increments the user's monthly counter, resetting it first
// when the month has rolled over.
func (s *Store) RecordStoryUse(ctx context.Context, email string) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("user email is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	month := usageMonth(time.Now())
	_, err := s.DB.ExecContext(ctx, `
		UPDATE users SET
			stories_this_month = CASE WHEN usage_month = ? THEN stories_this_month + 1 ELSE 1 END,
			usage_month = ?
		WHERE email = ?
	`, month, month, email)
	if err != nil {
		return fmt.Errorf("record story use: %w", err)
	}
	return nil
}

func (s *Store) execUserUpdate(ctx context.Context, query string, args ...any) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	for _, arg := range args {
		if v, ok := arg.(string); ok && strings.TrimSpace(v) == "" {
			return errors.New("user update arguments must not be empty")
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
