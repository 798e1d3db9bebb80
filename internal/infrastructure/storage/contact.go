package storage

import (
	"context"
	"database/sql"
	"fmt"

	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

// ContactRepository stores contact form submissions.
type ContactRepository struct {
	db *sql.DB
}

var _ ports.ContactRepository = (*ContactRepository)(nil)

// NewContactRepository wires a sql.DB implementation.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// SaveMessage inserts one contact message.
func (r *ContactRepository) SaveMessage(ctx context.Context, msg domain.ContactMessage) error {
	query, args, err := psql.Insert("contact_messages").
		Columns("id", "name", "email", "message", "created_at").
		Values(msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	return nil
}
