package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

// SendLogRepository appends newsletter dispatch audit rows.
type SendLogRepository struct {
	db *sql.DB
}

var _ ports.SendLogRepository = (*SendLogRepository)(nil)

// NewSendLogRepository wires a sql.DB implementation.
func NewSendLogRepository(db *sql.DB) *SendLogRepository {
	return &SendLogRepository{db: db}
}

// Append records one dispatch run. Rows are never updated or deleted.
func (r *SendLogRepository) Append(ctx context.Context, log domain.SendLog) error {
	query, args, err := psql.Insert("newsletter_sent_log").
		Columns("posts_count", "subscribers_count", "success_count", "error_count", "post_titles", "sent_at").
		Values(log.PostsCount, log.SubscribersCount, log.SuccessCount, log.ErrorCount,
			pq.StringArray(log.PostTitles), log.SentAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append send log: %w", err)
	}
	return nil
}
