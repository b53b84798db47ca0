package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-ai/internal/database"
	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

const accountColumns = `id, email, password_hash, name, avatar, role, subscription,
	generations_left, generations_total, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Avatar, &a.Role, &a.Subscription,
		&a.GenerationsLeft, &a.GenerationsTotal, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func accountNotFound(id string) error {
	err := apierror.Wrap(model.ErrAccountNotFound, "NOT_FOUND", "account not found", http.StatusNotFound)
	err.Details = id
	return err
}

func emailTaken() error {
	return apierror.Wrap(model.ErrEmailTaken, "CONFLICT", "email already in use", http.StatusConflict)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, accountNotFound(id)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find account by id: %w", err)
	}
	return a, nil
}

// FindByEmail matches the address exactly; emails are case-sensitive.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, accountNotFound("")
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find account by email: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a model.Account) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, name, avatar, role, subscription,
		                       generations_left, generations_total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Avatar, a.Role, a.Subscription,
		a.GenerationsLeft, a.GenerationsTotal, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return emailTaken()
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, name string, email string) (model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`UPDATE accounts SET name = $2, email = $3, updated_at = $4 WHERE id = $1
		 RETURNING `+accountColumns,
		id, name, email, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, accountNotFound(id)
	}
	if isUniqueViolation(err) {
		return model.Account{}, emailTaken()
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("update profile: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accountNotFound(id)
	}
	return nil
}

// ApplyAdminUpdate writes the non-nil fields of update and returns the
// resulting record.
func (r *AccountRepository) ApplyAdminUpdate(ctx context.Context, id string, update model.AccountUpdate) (model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`UPDATE accounts SET
		     role = COALESCE($2, role),
		     subscription = COALESCE($3, subscription),
		     generations_left = COALESCE($4, generations_left),
		     generations_total = COALESCE($5, generations_total),
		     updated_at = $6
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, update.Role, update.Subscription, update.GenerationsLeft, update.GenerationsTotal, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, accountNotFound(id)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("apply admin update: %w", err)
	}
	return a, nil
}

// ConsumeGeneration takes one unit of quota in a single conditional update
// so concurrent callers can never drive the balance below zero.
func (r *AccountRepository) ConsumeGeneration(ctx context.Context, id string) (model.Quota, error) {
	var q model.Quota
	err := r.pool.QueryRow(ctx,
		`UPDATE accounts SET generations_left = generations_left - 1, updated_at = $2
		 WHERE id = $1 AND generations_left > 0
		 RETURNING generations_left, generations_total`,
		id, time.Now().UTC()).Scan(&q.Left, &q.Total)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return model.Quota{}, findErr
		}
		return model.Quota{}, apierror.Wrap(model.ErrQuotaExceeded, "QUOTA_EXCEEDED", "no generations left", http.StatusForbidden)
	}
	if err != nil {
		return model.Quota{}, fmt.Errorf("consume generation: %w", err)
	}
	return q, nil
}

func (r *AccountRepository) RefundGeneration(ctx context.Context, id string) (model.Quota, error) {
	var q model.Quota
	err := r.pool.QueryRow(ctx,
		`UPDATE accounts SET generations_left = LEAST(generations_left + 1, generations_total), updated_at = $2
		 WHERE id = $1
		 RETURNING generations_left, generations_total`,
		id, time.Now().UTC()).Scan(&q.Left, &q.Total)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Quota{}, accountNotFound(id)
	}
	if err != nil {
		return model.Quota{}, fmt.Errorf("refund generation: %w", err)
	}
	return q, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) CountBySubscription(ctx context.Context, tier string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE subscription = $1`, tier).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts by subscription: %w", err)
	}
	return count, nil
}

// DeleteCascade removes an account and everything hanging off it in one
// transaction: save-links, collection links, collections, posts, then the
// account row. Nothing is removed if the account does not exist.
func (r *AccountRepository) DeleteCascade(ctx context.Context, id string) (model.DeletionReport, error) {
	var report model.DeletionReport

	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM saved_posts
			 WHERE user_id = $1 OR post_id IN (SELECT id FROM posts WHERE author_id = $1)`, id)
		if err != nil {
			return fmt.Errorf("delete saved links: %w", err)
		}
		report.SavedLinks = tag.RowsAffected()

		tag, err = tx.Exec(ctx,
			`DELETE FROM post_collections
			 WHERE collection_id IN (SELECT id FROM collections WHERE user_id = $1)
			    OR post_id IN (SELECT id FROM posts WHERE author_id = $1)`, id)
		if err != nil {
			return fmt.Errorf("delete collection links: %w", err)
		}
		report.CollectionLinks = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM collections WHERE user_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete collections: %w", err)
		}
		report.Collections = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM posts WHERE author_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		report.Posts = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return accountNotFound(id)
		}
		return nil
	})
	if err != nil {
		return model.DeletionReport{}, err
	}

	return report, nil
}
