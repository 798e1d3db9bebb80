// Package newsletter dispatches the weekly email batch to confirmed
// subscribers and records an audit log per run.
package newsletter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

// recentWindow is the post lookback for one dispatch run.
const recentWindow = 7 * 24 * time.Hour

// Dispatcher sends recent posts to all eligible subscribers. Each send is
// isolated: one failure increments the error count and the loop continues.
type Dispatcher struct {
	posts   ports.PostRepository
	subs    ports.SubscriberRepository
	sendLog ports.SendLogRepository
	sender  ports.EmailSender
	limiter *rate.Limiter
	from    string
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewDispatcher wires repositories and the email provider. A zero send
// interval disables pacing (tests).
func NewDispatcher(
	posts ports.PostRepository,
	subs ports.SubscriberRepository,
	sendLog ports.SendLogRepository,
	sender ports.EmailSender,
	cfg config.EmailConfig,
	baseURL string,
	logger *slog.Logger,
) *Dispatcher {
	var limiter *rate.Limiter
	if cfg.SendInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.SendInterval), 1)
	}
	return &Dispatcher{
		posts:   posts,
		subs:    subs,
		sendLog: sendLog,
		sender:  sender,
		limiter: limiter,
		from:    cfg.From,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Dispatch runs one newsletter batch. Zero recent posts is a successful
// no-op recorded in the audit log, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context) (domain.SendLog, error) {
	now := d.now().UTC()
	log := domain.SendLog{SentAt: now}

	posts, err := d.posts.RecentPublished(ctx, now.Add(-recentWindow))
	if err != nil {
		return log, fmt.Errorf("load recent posts: %w", err)
	}

	log.PostsCount = len(posts)
	for _, p := range posts {
		log.PostTitles = append(log.PostTitles, p.Title)
	}

	if len(posts) == 0 {
		d.info("no recent posts, skipping dispatch")
		return log, d.appendLog(ctx, log)
	}

	subs, err := d.subs.ListEligible(ctx)
	if err != nil {
		return log, fmt.Errorf("load subscribers: %w", err)
	}

	subject := subjectFor(posts)

	for _, sub := range subs {
		// Defense in depth: the repository already filters, but an
		// unconfirmed or inactive subscriber must never receive mail.
		if !sub.Eligible() {
			continue
		}
		log.SubscribersCount++

		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return log, fmt.Errorf("rate limiter interrupted: %w", err)
			}
		}

		html, text, err := renderEmail(sub, posts, d.baseURL)
		if err != nil {
			log.ErrorCount++
			d.warn("render failed", "email", sub.Email, "error", err)
			continue
		}

		msgID, err := d.sender.Send(ctx, domain.Email{
			From:    d.from,
			To:      sub.Email,
			Subject: subject,
			HTML:    html,
			Text:    text,
		})
		if err != nil {
			log.ErrorCount++
			d.warn("send failed", "email", sub.Email, "error", err)
			continue
		}

		log.SuccessCount++
		d.debug("email sent", "email", sub.Email, "message_id", msgID)
	}

	d.info("dispatch complete",
		"posts", log.PostsCount,
		"subscribers", log.SubscribersCount,
		"success", log.SuccessCount,
		"errors", log.ErrorCount,
	)

	return log, d.appendLog(ctx, log)
}

func (d *Dispatcher) appendLog(ctx context.Context, log domain.SendLog) error {
	if err := d.sendLog.Append(ctx, log); err != nil {
		return fmt.Errorf("append send log: %w", err)
	}
	return nil
}

func subjectFor(posts []domain.Post) string {
	if len(posts) == 1 {
		return posts[0].Title
	}
	return fmt.Sprintf("%s (and %d more this week)", posts[0].Title, len(posts)-1)
}

func (d *Dispatcher) info(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Dispatcher) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}

func (d *Dispatcher) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
