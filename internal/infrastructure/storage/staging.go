package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"newsroom/internal/domain"
	"newsroom/internal/ports"
)

// StagingFile is the write-ahead staging sink used when the hosted store is
// unreachable. The database stays the single source of truth; staged posts
// are re-upserted (keyed by slug) by the next successful pipeline run.
type StagingFile struct {
	path string
}

var _ ports.StagingSink = (*StagingFile)(nil)

// NewStagingFile points the sink at a JSON file path.
func NewStagingFile(path string) *StagingFile {
	return &StagingFile{path: path}
}

// Stage writes the post into the staging file, replacing any staged post
// with the same slug. Writes go through a temp file and rename so a crash
// cannot leave a torn file.
func (s *StagingFile) Stage(_ context.Context, post domain.Post) error {
	posts, err := s.Load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range posts {
		if posts[i].Slug == post.Slug {
			posts[i] = post
			replaced = true
			break
		}
	}
	if !replaced {
		posts = append(posts, post)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	raw, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal staged posts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write staging file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace staging file: %w", err)
	}
	return nil
}

// Load reads all currently staged posts. A missing file is an empty stage.
func (s *StagingFile) Load() ([]domain.Post, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read staging file: %w", err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("parse staging file: %w", err)
	}
	return posts, nil
}
