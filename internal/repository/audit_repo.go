package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-ai/internal/model"
)

const auditSelect = `SELECT action, occurred_at, actor_user_id, actor_email, actor_role, actor_ip,
	status, resource, before_data, after_data, error_text FROM audit_entries`

// auditRow mirrors one audit_entries row.
type auditRow struct {
	Action      string    `db:"action"`
	OccurredAt  time.Time `db:"occurred_at"`
	ActorUserID string    `db:"actor_user_id"`
	ActorEmail  string    `db:"actor_email"`
	ActorRole   string    `db:"actor_role"`
	ActorIP     string    `db:"actor_ip"`
	Status      string    `db:"status"`
	Resource    string    `db:"resource"`
	BeforeData  []byte    `db:"before_data"`
	AfterData   []byte    `db:"after_data"`
	ErrorText   string    `db:"error_text"`
}

func (row auditRow) entry() model.AuditEntry {
	return model.AuditEntry{
		Action:     row.Action,
		OccurredAt: row.OccurredAt.UTC().Format(time.RFC3339Nano),
		Actor: model.AuditActor{
			UserID: row.ActorUserID,
			Email:  row.ActorEmail,
			Role:   row.ActorRole,
			IP:     row.ActorIP,
		},
		Status:   row.Status,
		Resource: row.Resource,
		Before:   decodeSnapshot(row.BeforeData),
		After:    decodeSnapshot(row.AfterData),
		Error:    row.ErrorText,
	}
}

// AuditRepository is the append-only store behind the admin audit log.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	before, err := encodeSnapshot(entry.Before)
	if err != nil {
		return fmt.Errorf("encode audit before: %w", err)
	}
	after, err := encodeSnapshot(entry.After)
	if err != nil {
		return fmt.Errorf("encode audit after: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_entries (action, occurred_at, actor_user_id, actor_email, actor_role,
		  actor_ip, status, resource, before_data, after_data, error_text)
		 VALUES (@action, @occurred_at, @actor_user_id, @actor_email, @actor_role,
		  @actor_ip, @status, @resource, @before_data, @after_data, @error_text)`,
		pgx.NamedArgs{
			"action":        entry.Action,
			"occurred_at":   entry.OccurredAt,
			"actor_user_id": entry.Actor.UserID,
			"actor_email":   entry.Actor.Email,
			"actor_role":    entry.Actor.Role,
			"actor_ip":      entry.Actor.IP,
			"status":        entry.Status,
			"resource":      entry.Resource,
			"before_data":   before,
			"after_data":    after,
			"error_text":    entry.Error,
		})
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Query pages through the log newest first. Action and status match
// exactly ignoring case; resource is a substring match.
func (r *AuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	p := newPage(query.Page, query.Limit, 50, 200)

	var f filter
	f.addText("lower(action) = lower(?)", query.Action)
	f.addText("actor_user_id = ?", query.ActorID)
	f.addText("lower(status) = lower(?)", query.Status)
	f.addContains("lower(resource) LIKE lower(?)", query.Resource)
	f.addText("occurred_at >= ?::timestamptz", query.From)
	f.addText("occurred_at <= ?::timestamptz", query.To)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_entries"+f.where(), f.args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit entries: %w", err)
	}

	sql := auditSelect + f.where() + " ORDER BY occurred_at DESC" + f.limit(p)
	rows, err := r.pool.Query(ctx, sql, f.args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit entries: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[auditRow])
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("scan audit entries: %w", err)
	}

	entries := make([]model.AuditEntry, len(records))
	for i, row := range records {
		entries[i] = row.entry()
	}
	return entries, p.meta(total), nil
}

// encodeSnapshot returns nil for a nil value so the column stays NULL.
func encodeSnapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// decodeSnapshot drops data that no longer parses.
func decodeSnapshot(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
