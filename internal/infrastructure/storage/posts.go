package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

// PostRepository persists generated posts in the blog_posts table.
type PostRepository struct {
	db *sql.DB
}

var _ ports.PostRepository = (*PostRepository)(nil)

// NewPostRepository wires a sql.DB implementation.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// UpsertPost inserts the post or, when the slug already exists, overwrites
// the generated fields of the existing row. Re-running a week's pipeline
// therefore updates instead of duplicating.
func (r *PostRepository) UpsertPost(ctx context.Context, post domain.Post) (string, error) {
	query, args, err := psql.Insert("blog_posts").
		Columns("id", "slug", "title", "excerpt", "content", "category",
			"author", "date", "read_time", "image", "featured", "published").
		Values(post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.Category,
			post.Author, post.Date, post.ReadTime, post.Image, post.Featured, post.Published).
		Suffix(`ON CONFLICT (slug) DO UPDATE
			SET title = EXCLUDED.title,
			    excerpt = EXCLUDED.excerpt,
			    content = EXCLUDED.content,
			    category = EXCLUDED.category,
			    read_time = EXCLUDED.read_time,
			    image = EXCLUDED.image,
			    published = EXCLUDED.published,
			    updated_at = NOW()
			RETURNING id`).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build upsert: %w", err)
	}

	var id string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("upsert post %s: %w", post.Slug, err)
	}
	return id, nil
}

// RecentPublished lists published posts created after the given instant,
// newest first.
func (r *PostRepository) RecentPublished(ctx context.Context, since time.Time) ([]domain.Post, error) {
	query, args, err := psql.Select("id", "slug", "title", "excerpt", "content", "category",
		"author", "date", "read_time", "image", "featured", "published").
		From("blog_posts").
		Where(sq.Eq{"published": true}).
		Where(sq.Gt{"created_at": since}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Category,
			&p.Author, &p.Date, &p.ReadTime, &p.Image, &p.Featured, &p.Published); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return posts, nil
}
