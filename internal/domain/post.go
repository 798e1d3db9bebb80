package domain

import "time"

// Post is a generated blog entry ready for persistence.
// Slug must stay unique across all posts; the persistence layer upserts by it.
type Post struct {
	ID        string
	Slug      string
	Title     string
	Excerpt   string
	Content   string
	Category  string
	Author    string
	Date      time.Time
	ReadTime  int // minutes
	Image     string
	Featured  bool
	Published bool
}

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
