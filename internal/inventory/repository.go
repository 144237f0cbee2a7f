package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/torque-erp/torque-erp/internal/platform/db"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ListFilter narrows inventory listings.
type ListFilter struct {
	LowStockOnly bool
	Search       string
	Limit        int
	Offset       int
}

// Repository abstracts inventory persistence for the service.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Item, int, error)
	Get(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, item Item) (int64, error)
	Update(ctx context.Context, item Item) error
	Delete(ctx context.Context, id int64) error
	Stock() StockTx
}

type repository struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed inventory repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

// NewStockTx exposes the deduction view over an existing transaction
// handle so other modules can deduct inside their own unit of work.
func NewStockTx(dbtx DBTX) StockTx {
	return &repository{db: dbtx}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Stock() StockTx {
	return r
}

const itemColumns = "id, code, description, quantity, min_quantity, status, unit_cost, created_at, updated_at"

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Code, &it.Description, &it.Quantity, &it.MinQuantity, &it.Status, &it.UnitCost, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Item, int, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argPos := 1

	if filter.LowStockOnly {
		where += " AND status IN ('Low Stock', 'Out of Stock')"
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (code ILIKE $%d OR description ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM inventory "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("inventory: count: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM inventory %s ORDER BY description ASC LIMIT $%d OFFSET $%d", itemColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("inventory: list: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx, "SELECT "+itemColumns+" FROM inventory WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *repository) Create(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO inventory (code, description, quantity, min_quantity, status, unit_cost)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		item.Code, item.Description, item.Quantity, item.MinQuantity, item.Status, item.UnitCost).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inventory: create: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, item Item) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE inventory SET code = $1, description = $2, quantity = $3, min_quantity = $4, status = $5, unit_cost = $6, updated_at = NOW()
		 WHERE id = $7`,
		item.Code, item.Description, item.Quantity, item.MinQuantity, item.Status, item.UnitCost, item.ID)
	if err != nil {
		return fmt.Errorf("inventory: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM inventory WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("inventory: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) FindForUpdateByCode(ctx context.Context, code string) ([]Item, error) {
	return r.findForUpdate(ctx, "code = $1", code)
}

func (r *repository) FindForUpdateByDescription(ctx context.Context, description string) ([]Item, error) {
	return r.findForUpdate(ctx, "description = $1", description)
}

func (r *repository) findForUpdate(ctx context.Context, cond string, arg interface{}) ([]Item, error) {
	rows, err := r.db.Query(ctx, "SELECT "+itemColumns+" FROM inventory WHERE "+cond+" FOR UPDATE", arg)
	if err != nil {
		return nil, fmt.Errorf("inventory: lock rows: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) UpdateStock(ctx context.Context, id int64, quantity int, status string) error {
	_, err := r.db.Exec(ctx, "UPDATE inventory SET quantity = $1, status = $2, updated_at = NOW() WHERE id = $3", quantity, status, id)
	if err != nil {
		return fmt.Errorf("inventory: update stock: %w", err)
	}
	return nil
}
