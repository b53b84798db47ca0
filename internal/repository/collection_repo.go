package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-ai/internal/database"
	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

type CollectionRepository struct {
	pool *pgxpool.Pool
}

func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

func collectCollections(rows pgx.Rows) ([]model.Collection, error) {
	defer rows.Close()

	collections := make([]model.Collection, 0)
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt, &c.PostCount); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *CollectionRepository) Create(ctx context.Context, c model.Collection) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO collections (id, user_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.Name, c.Description, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (r *CollectionRepository) FindByID(ctx context.Context, id string) (model.Collection, error) {
	var c model.Collection
	err := r.pool.QueryRow(ctx,
		`SELECT c.id, c.user_id, c.name, c.description, c.created_at,
		        (SELECT COUNT(*) FROM post_collections pc WHERE pc.collection_id = c.id)
		 FROM collections c WHERE c.id = $1`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt, &c.PostCount)
	if errors.Is(err, pgx.ErrNoRows) {
		notFound := apierror.Wrap(model.ErrCollectionNotFound, "NOT_FOUND", "collection not found", http.StatusNotFound)
		notFound.Details = id
		return model.Collection{}, notFound
	}
	if err != nil {
		return model.Collection{}, fmt.Errorf("find collection: %w", err)
	}
	return c, nil
}

// ListByUser returns the user's collections with post counts, optionally
// filtered by a case-insensitive match on name or description.
func (r *CollectionRepository) ListByUser(ctx context.Context, userID string, search string) ([]model.Collection, error) {
	args := []any{userID}
	filter := ""
	if search = strings.TrimSpace(search); search != "" {
		filter = ` AND (c.name ILIKE $2 OR c.description ILIKE $2)`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.user_id, c.name, c.description, c.created_at, COUNT(pc.post_id)
		 FROM collections c
		 LEFT JOIN post_collections pc ON pc.collection_id = c.id
		 WHERE c.user_id = $1`+filter+`
		 GROUP BY c.id
		 ORDER BY c.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collectCollections(rows)
}

// CountOwned reports how many of ids belong to userID.
func (r *CollectionRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM collections WHERE user_id = $1 AND id::text = ANY($2)`, userID, ids).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owned collections: %w", err)
	}
	return count, nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM post_collections WHERE collection_id = $1`, id); err != nil {
			return fmt.Errorf("delete collection links: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apierror.Wrap(model.ErrCollectionNotFound, "NOT_FOUND", "collection not found", http.StatusNotFound)
		}
		return nil
	})
}
