package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-ai/internal/database"
	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

const postColumns = `p.id, p.author_id, p.title, p.content, p.excerpt, p.status, p.writing_phase,
	p.word_count, p.likes, p.created_at, p.updated_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Excerpt, &p.Status, &p.WritingPhase,
		&p.WordCount, &p.Likes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPosts(rows pgx.Rows) ([]model.Post, error) {
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func postNotFound(id string) error {
	err := apierror.Wrap(model.ErrPostNotFound, "NOT_FOUND", "post not found", http.StatusNotFound)
	err.Details = id
	return err
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, title, content, excerpt, status, writing_phase,
		                    word_count, likes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.AuthorID, p.Title, p.Content, p.Excerpt, p.Status, p.WritingPhase,
		p.WordCount, p.Likes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, postNotFound(id)
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// Update writes the editable fields. author_id is never changed.
func (r *PostRepository) Update(ctx context.Context, p model.Post) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET title = $2, content = $3, excerpt = $4, status = $5, writing_phase = $6,
		                  word_count = $7, updated_at = $8
		 WHERE id = $1`,
		p.ID, p.Title, p.Content, p.Excerpt, p.Status, p.WritingPhase, p.WordCount, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return postNotFound(p.ID)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM saved_posts WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("delete saved links: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_collections WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("delete collection links: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return postNotFound(id)
		}
		return nil
	})
}

// Query lists an author's posts, newest edit first. Search is a
// case-insensitive substring match on title, content and excerpt.
func (r *PostRepository) Query(ctx context.Context, query model.PostQuery) ([]model.Post, model.Meta, error) {
	p := newPage(query.Page, query.Limit, 20, 100)

	var f filter
	f.add("p.author_id = ?", query.AuthorID)
	f.addContains("(p.title ILIKE ? OR p.content ILIKE ? OR p.excerpt ILIKE ?)", query.Search)
	f.addText("p.status = ?", query.Status)
	f.addText("p.writing_phase = ?", query.WritingPhase)
	if query.From != nil {
		f.add("p.created_at >= ?", *query.From)
	}
	if query.To != nil {
		f.add("p.created_at <= ?", *query.To)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM posts p"+f.where(), f.args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count posts: %w", err)
	}

	sql := "SELECT " + postColumns + " FROM posts p" + f.where() + " ORDER BY p.updated_at DESC" + f.limit(p)
	rows, err := r.pool.Query(ctx, sql, f.args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query posts: %w", err)
	}

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return posts, p.meta(total), nil
}

func (r *PostRepository) CountsByAuthor(ctx context.Context, authorID string) (model.PostCounts, error) {
	var c model.PostCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'published'),
		        COUNT(*) FILTER (WHERE status = 'draft')
		 FROM posts WHERE author_id = $1`, authorID).Scan(&c.Total, &c.Published, &c.Drafts)
	if err != nil {
		return model.PostCounts{}, fmt.Errorf("count author posts: %w", err)
	}
	return c, nil
}

// Recent returns the author's newest posts by creation time.
func (r *PostRepository) Recent(ctx context.Context, authorID string, limit int) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.author_id = $1
		 ORDER BY p.created_at DESC LIMIT $2`, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return collectPosts(rows)
}

// RecentDrafts returns the author's most recently edited drafts.
func (r *PostRepository) RecentDrafts(ctx context.Context, authorID string, limit int) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.author_id = $1 AND p.status = 'draft'
		 ORDER BY p.updated_at DESC LIMIT $2`, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent drafts: %w", err)
	}
	return collectPosts(rows)
}

func (r *PostRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func (r *PostRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recent posts: %w", err)
	}
	return count, nil
}

func (r *PostRepository) CollectionsForPost(ctx context.Context, postID string) ([]model.Collection, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.user_id, c.name, c.description, c.created_at,
		        (SELECT COUNT(*) FROM post_collections pc2 WHERE pc2.collection_id = c.id)
		 FROM collections c
		 JOIN post_collections pc ON pc.collection_id = c.id
		 WHERE pc.post_id = $1
		 ORDER BY c.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("post collections: %w", err)
	}
	return collectCollections(rows)
}

// SetCollections replaces the post's collection links with ids.
func (r *PostRepository) SetCollections(ctx context.Context, postID string, collectionIDs []string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM post_collections WHERE post_id = $1`, postID); err != nil {
			return fmt.Errorf("clear post collections: %w", err)
		}

		batch := &pgx.Batch{}
		for _, id := range collectionIDs {
			batch.Queue(`INSERT INTO post_collections (post_id, collection_id) VALUES ($1, $2)
			             ON CONFLICT DO NOTHING`, postID, id)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("link post collections: %w", err)
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
