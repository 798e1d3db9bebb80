// Package subscriber implements the newsletter subscription lifecycle:
// pending confirmation, active, unsubscribed, and back to pending on
// resubscribe. No state is terminal.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsroom/internal/domain"
	"newsroom/internal/infrastructure/storage"
	"newsroom/internal/ports"
)

// ErrInvalidEmail rejects malformed addresses at the boundary.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrTokenNotFound means the confirmation token matched no pending subscriber.
var ErrTokenNotFound = errors.New("confirmation token not found")

// Service coordinates subscriber state transitions over the repository.
type Service struct {
	repo   ports.SubscriberRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the repository.
func NewService(repo ports.SubscriberRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Subscribe creates a pending subscriber or resets an unsubscribed one back
// to pending with a fresh token. An already-active subscriber is left
// untouched. Returns the subscriber including its confirmation token.
func (s *Service) Subscribe(ctx context.Context, email, name string) (*domain.Subscriber, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}

	now := s.now().UTC()

	if existing != nil {
		if existing.Eligible() {
			return existing, nil
		}
		// Unsubscribed or never confirmed: back to pending with a new token.
		existing.Name = pickName(name, existing.Name)
		existing.ConfirmationToken = uuid.NewString()
		existing.ConfirmedAt = nil
		existing.IsActive = false
		existing.UnsubscribedAt = nil
		existing.UpdatedAt = now

		if err := s.repo.Save(ctx, *existing); err != nil {
			return nil, fmt.Errorf("save subscriber: %w", err)
		}
		s.info("subscriber reset to pending", "email", email)
		return existing, nil
	}

	sub := domain.Subscriber{
		Email:             email,
		Name:              name,
		ConfirmationToken: uuid.NewString(),
		IsActive:          false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscriber: %w", err)
	}
	s.info("subscriber created", "email", email)
	return &sub, nil
}

// Confirm activates the subscriber holding the token and clears it.
func (s *Service) Confirm(ctx context.Context, token string) (*domain.Subscriber, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenNotFound
	}

	sub, err := s.repo.FindByToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}

	now := s.now().UTC()
	sub.ConfirmationToken = ""
	sub.ConfirmedAt = &now
	sub.IsActive = true
	sub.UpdatedAt = now

	if err := s.repo.Save(ctx, *sub); err != nil {
		return nil, fmt.Errorf("save subscriber: %w", err)
	}
	s.info("subscriber confirmed", "email", sub.Email)
	return sub, nil
}

// Unsubscribe deactivates the subscriber. Unknown addresses are a no-op so
// the endpoint does not leak which emails exist.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	sub, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup subscriber: %w", err)
	}

	now := s.now().UTC()
	sub.IsActive = false
	sub.UnsubscribedAt = &now
	sub.UpdatedAt = now

	if err := s.repo.Save(ctx, *sub); err != nil {
		return fmt.Errorf("save subscriber: %w", err)
	}
	s.info("subscriber unsubscribed", "email", email)
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func pickName(preferred, current string) string {
	if strings.TrimSpace(preferred) != "" {
		return preferred
	}
	return current
}

func (s *Service) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
