package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

// SubscriberRepository stores newsletter recipients keyed by email.
type SubscriberRepository struct {
	db *sql.DB
}

var _ ports.SubscriberRepository = (*SubscriberRepository)(nil)

// NewSubscriberRepository wires a sql.DB implementation.
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

const subscriberColumns = "email, name, confirmation_token, confirmed_at, is_active, unsubscribed_at, created_at, updated_at"

// FindByEmail loads one subscriber or ErrNotFound.
func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	return r.findOne(ctx, sq.Eq{"email": email})
}

// FindByToken loads the subscriber holding an outstanding confirmation token.
func (r *SubscriberRepository) FindByToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	return r.findOne(ctx, sq.Eq{"confirmation_token": token})
}

func (r *SubscriberRepository) findOne(ctx context.Context, pred any) (*domain.Subscriber, error) {
	query, args, err := psql.Select("email", "name", "confirmation_token", "confirmed_at",
		"is_active", "unsubscribed_at", "created_at", "updated_at").
		From("newsletter_subscribers").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		sub   domain.Subscriber
		token sql.NullString
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&sub.Email, &sub.Name, &token, &sub.ConfirmedAt,
		&sub.IsActive, &sub.UnsubscribedAt, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query subscriber: %w", err)
	}

	if token.Valid {
		sub.ConfirmationToken = token.String
	}
	return &sub, nil
}

// Save upserts the subscriber row keyed by email.
func (r *SubscriberRepository) Save(ctx context.Context, sub domain.Subscriber) error {
	var token any
	if sub.ConfirmationToken != "" {
		token = sub.ConfirmationToken
	}

	query, args, err := psql.Insert("newsletter_subscribers").
		Columns("email", "name", "confirmation_token", "confirmed_at", "is_active", "unsubscribed_at").
		Values(sub.Email, sub.Name, token, sub.ConfirmedAt, sub.IsActive, sub.UnsubscribedAt).
		Suffix(`ON CONFLICT (email) DO UPDATE
			SET name = EXCLUDED.name,
			    confirmation_token = EXCLUDED.confirmation_token,
			    confirmed_at = EXCLUDED.confirmed_at,
			    is_active = EXCLUDED.is_active,
			    unsubscribed_at = EXCLUDED.unsubscribed_at,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save subscriber %s: %w", sub.Email, err)
	}
	return nil
}

// ListEligible returns confirmed, active subscribers.
func (r *SubscriberRepository) ListEligible(ctx context.Context) ([]domain.Subscriber, error) {
	query, args, err := psql.Select("email", "name", "confirmation_token", "confirmed_at",
		"is_active", "unsubscribed_at", "created_at", "updated_at").
		From("newsletter_subscribers").
		Where(sq.NotEq{"confirmed_at": nil}).
		Where(sq.Eq{"is_active": true}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query eligible subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var (
			sub   domain.Subscriber
			token sql.NullString
		)
		if err := rows.Scan(&sub.Email, &sub.Name, &token, &sub.ConfirmedAt,
			&sub.IsActive, &sub.UnsubscribedAt, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		if token.Valid {
			sub.ConfirmationToken = token.String
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return subs, nil
}
