package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-ai/internal/model"
)

type SavedPostRepository struct {
	pool *pgxpool.Pool
}

func NewSavedPostRepository(pool *pgxpool.Pool) *SavedPostRepository {
	return &SavedPostRepository{pool: pool}
}

// Save is idempotent.
func (r *SavedPostRepository) Save(ctx context.Context, userID string, postID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO saved_posts (user_id, post_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, post_id) DO NOTHING`, userID, postID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

func (r *SavedPostRepository) Unsave(ctx context.Context, userID string, postID string) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM saved_posts WHERE user_id = $1 AND post_id = $2`, userID, postID); err != nil {
		return fmt.Errorf("unsave post: %w", err)
	}
	return nil
}

// ListSaved returns the user's saved posts that are still published,
// most recently saved first.
func (r *SavedPostRepository) ListSaved(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		 FROM saved_posts s
		 JOIN posts p ON p.id = s.post_id
		 WHERE s.user_id = $1 AND p.status = 'published'
		 ORDER BY s.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved posts: %w", err)
	}
	return collectPosts(rows)
}
