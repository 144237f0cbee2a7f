package joborders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/platform/db"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// ListFilter narrows job-order listings.
type ListFilter struct {
	DisplayNumber *int
	Status        *Status
}

// Repository abstracts job-order persistence. Mutations run through
// WithTx, which hands the callback a repository bound to one pgx
// transaction; the sequencer and inventory stock view share it.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*JobOrder, error)
	List(ctx context.Context, filter ListFilter) ([]JobOrder, error)
	StatusAndNumber(ctx context.Context, id int64) (Status, int, error)
	Insert(ctx context.Context, order JobOrder) (int64, error)
	UpdateHeader(ctx context.Context, order JobOrder) error
	ReplaceLines(ctx context.Context, orderID int64, services, parts []LineItem) error
	Delete(ctx context.Context, id int64) error
	NextCompletedNumber(ctx context.Context) (int, error)
	CompactFrom(ctx context.Context, removed int) error
	Stock() inventory.StockTx
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
	sequencer
}

// NewRepository constructs the pgx-backed job-order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool, sequencer: sequencer{db: pool}}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool, sequencer: sequencer{db: tx}})
	})
}

func (r *repository) Stock() inventory.StockTx {
	return inventory.NewStockTx(r.db)
}

const orderColumns = `id, display_no, status, payment_type, customer_type, client_name, address,
	contact_no, vehicle_model, plate_no, date_in, date_release, assigned_to,
	subtotal, discount, total_amount, created_at, updated_at`

func scanOrder(row pgx.Row) (JobOrder, error) {
	var (
		o           JobOrder
		dateRelease pgtype.Date
	)
	err := row.Scan(
		&o.ID, &o.DisplayNumber, &o.Status, &o.PaymentType, &o.CustomerType, &o.ClientName, &o.Address,
		&o.ContactNumber, &o.VehicleModel, &o.PlateNumber, &o.DateIn, &dateRelease, &o.AssignedTo,
		&o.Subtotal, &o.Discount, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return JobOrder{}, err
	}
	if dateRelease.Valid {
		t := dateRelease.Time
		o.DateRelease = &t
	}
	return o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*JobOrder, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM job_orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("joborders: get: %w", err)
	}
	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]JobOrder, error) {
	query := "SELECT " + orderColumns + " FROM job_orders"
	var args []interface{}
	argPos := 1
	where := ""
	if filter.DisplayNumber != nil {
		where = fmt.Sprintf(" WHERE display_no = $%d", argPos)
		args = append(args, *filter.DisplayNumber)
		argPos++
	}
	if filter.Status != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE status = $%d", argPos)
		} else {
			where += fmt.Sprintf(" AND status = $%d", argPos)
		}
		args = append(args, *filter.Status)
		argPos++
	}
	rows, err := r.db.Query(ctx, query+where+" ORDER BY id DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("joborders: list: %w", err)
	}
	defer rows.Close()

	var orders []JobOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadLines(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repository) loadLines(ctx context.Context, o *JobOrder) error {
	services, err := r.queryLines(ctx, "job_order_services", o.ID)
	if err != nil {
		return err
	}
	parts, err := r.queryLines(ctx, "job_order_parts", o.ID)
	if err != nil {
		return err
	}
	o.Services = services
	o.Parts = parts
	return nil
}

func (r *repository) queryLines(ctx context.Context, table string, orderID int64) ([]LineItem, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT id, code, description, quantity, unit, price, total FROM %s WHERE job_order_id = $1 ORDER BY id ASC", table),
		orderID)
	if err != nil {
		return nil, fmt.Errorf("joborders: load lines: %w", err)
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var l LineItem
		if err := rows.Scan(&l.ID, &l.Code, &l.Description, &l.Quantity, &l.Unit, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) StatusAndNumber(ctx context.Context, id int64) (Status, int, error) {
	var (
		status Status
		number int
	)
	err := r.db.QueryRow(ctx, "SELECT status, display_no FROM job_orders WHERE id = $1 FOR UPDATE", id).Scan(&status, &number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, shared.ErrNotFound
		}
		return "", 0, fmt.Errorf("joborders: status lookup: %w", err)
	}
	return status, number, nil
}

func (r *repository) Insert(ctx context.Context, o JobOrder) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO job_orders (display_no, status, payment_type, customer_type, client_name, address,
		    contact_no, vehicle_model, plate_no, date_in, date_release, assigned_to, subtotal, discount, total_amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		o.DisplayNumber, o.Status, o.PaymentType, o.CustomerType, o.ClientName, o.Address,
		o.ContactNumber, o.VehicleModel, o.PlateNumber, o.DateIn, releaseParam(o.DateRelease), o.AssignedTo,
		o.Subtotal, o.Discount, o.Total).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("joborders: insert: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, o JobOrder) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE job_orders SET display_no = $1, status = $2, payment_type = $3, customer_type = $4,
		    client_name = $5, address = $6, contact_no = $7, vehicle_model = $8, plate_no = $9,
		    date_in = $10, date_release = $11, assigned_to = $12, subtotal = $13, discount = $14,
		    total_amount = $15, updated_at = NOW()
		 WHERE id = $16`,
		o.DisplayNumber, o.Status, o.PaymentType, o.CustomerType,
		o.ClientName, o.Address, o.ContactNumber, o.VehicleModel, o.PlateNumber,
		o.DateIn, releaseParam(o.DateRelease), o.AssignedTo, o.Subtotal, o.Discount,
		o.Total, o.ID)
	if err != nil {
		return fmt.Errorf("joborders: update header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ReplaceLines(ctx context.Context, orderID int64, services, parts []LineItem) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM job_order_services WHERE job_order_id = $1", orderID); err != nil {
		return fmt.Errorf("joborders: clear services: %w", err)
	}
	if _, err := r.db.Exec(ctx, "DELETE FROM job_order_parts WHERE job_order_id = $1", orderID); err != nil {
		return fmt.Errorf("joborders: clear parts: %w", err)
	}
	if err := r.insertLines(ctx, "job_order_services", orderID, services); err != nil {
		return err
	}
	return r.insertLines(ctx, "job_order_parts", orderID, parts)
}

func (r *repository) insertLines(ctx context.Context, table string, orderID int64, lines []LineItem) error {
	for _, l := range lines {
		_, err := r.db.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s (job_order_id, code, description, quantity, unit, price, total) VALUES ($1, $2, $3, $4, $5, $6, $7)", table),
			orderID, l.Code, l.Description, l.Quantity, l.Unit, l.UnitPrice, l.LineTotal)
		if err != nil {
			return fmt.Errorf("joborders: insert line: %w", err)
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM job_orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("joborders: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func releaseParam(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
