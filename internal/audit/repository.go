package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed audit reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Window(ctx context.Context, filters Filters, offset, limit int) ([]Entry, error) {
	query := "SELECT at, actor, action, entity, entity_id, meta FROM audit_logs"
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filters.From.IsZero() {
		conds = append(conds, "at >= "+arg(filters.From))
	}
	if !filters.To.IsZero() {
		conds = append(conds, "at <= "+arg(filters.To))
	}
	if actor := strings.TrimSpace(filters.Actor); actor != "" {
		conds = append(conds, "actor = "+arg(actor))
	}
	if entity := strings.TrimSpace(filters.Entity); entity != "" {
		conds = append(conds, "entity = "+arg(entity))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY at DESC OFFSET " + arg(offset) + " LIMIT " + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: window: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			meta []byte
		)
		if err := rows.Scan(&e.At, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &meta); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
