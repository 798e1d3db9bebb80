package ports

import (
	"context"
	"time"

	"newsroom/internal/domain"
)

// PostRepository persists generated posts and serves the newsletter query.
type PostRepository interface {
	// UpsertPost inserts the post or updates the existing row with the same slug.
	// Returns the stored post id.
	UpsertPost(ctx context.Context, post domain.Post) (string, error)
	// RecentPublished lists published posts created after the given instant.
	RecentPublished(ctx context.Context, since time.Time) ([]domain.Post, error)
}

// SubscriberRepository is the single source of truth for newsletter recipients.
type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	FindByToken(ctx context.Context, token string) (*domain.Subscriber, error)
	Save(ctx context.Context, sub domain.Subscriber) error
	ListEligible(ctx context.Context) ([]domain.Subscriber, error)
}

// SendLogRepository appends newsletter dispatch audit records.
type SendLogRepository interface {
	Append(ctx context.Context, log domain.SendLog) error
}

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	SaveMessage(ctx context.Context, msg domain.ContactMessage) error
}

// TextGenerator produces prose from a prompt with a bounded token budget.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageGenerator turns a prompt into a hosted image URL.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmailSender delivers a single transactional email and returns a message id.
type EmailSender interface {
	Send(ctx context.Context, msg domain.Email) (string, error)
}

// StagingSink receives posts that could not reach the hosted store.
// It is a write-ahead staging area, not a second source of truth.
type StagingSink interface {
	Stage(ctx context.Context, post domain.Post) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
