package domain

import "time"

// Subscriber tracks one newsletter recipient through its lifecycle:
// pending confirmation -> active -> unsubscribed -> pending again on resubscribe.
type Subscriber struct {
	Email             string
	Name              string
	ConfirmationToken string // set while confirmation is pending, cleared on confirm
	ConfirmedAt       *time.Time
	IsActive          bool
	UnsubscribedAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Eligible reports whether the subscriber should receive newsletters.
func (s Subscriber) Eligible() bool {
	return s.ConfirmedAt != nil && s.IsActive
}

// SendLog is an append-only audit record of one newsletter dispatch run.
type SendLog struct {
	PostsCount       int
	SubscribersCount int
	SuccessCount     int
	ErrorCount       int
	PostTitles       []string
	SentAt           time.Time
}

// Email is an outbound transactional message.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}
