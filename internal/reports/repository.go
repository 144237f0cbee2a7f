package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/joborders"
)

// Repository is the read-side data access used by the aggregator.
type Repository interface {
	// CompletedOrders returns completed orders with date_in inside
	// [from, to), line items attached.
	CompletedOrders(ctx context.Context, from, to time.Time) ([]joborders.JobOrder, error)
	// InventoryItems returns the current inventory for cost lookup.
	InventoryItems(ctx context.Context) ([]inventory.Item, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed report repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CompletedOrders(ctx context.Context, from, to time.Time) ([]joborders.JobOrder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, display_no, status, payment_type, customer_type, client_name, address,
			contact_no, vehicle_model, plate_no, date_in, date_release, assigned_to,
			subtotal, discount, total_amount, created_at, updated_at
		 FROM job_orders
		 WHERE status = $1 AND date_in >= $2 AND date_in < $3
		 ORDER BY display_no ASC`,
		joborders.StatusCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports: completed orders: %w", err)
	}
	defer rows.Close()

	var orders []joborders.JobOrder
	for rows.Next() {
		var (
			o           joborders.JobOrder
			dateRelease pgtype.Date
		)
		err := rows.Scan(
			&o.ID, &o.DisplayNumber, &o.Status, &o.PaymentType, &o.CustomerType, &o.ClientName, &o.Address,
			&o.ContactNumber, &o.VehicleModel, &o.PlateNumber, &o.DateIn, &dateRelease, &o.AssignedTo,
			&o.Subtotal, &o.Discount, &o.Total, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("reports: scan order: %w", err)
		}
		if dateRelease.Valid {
			t := dateRelease.Time
			o.DateRelease = &t
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

func (r *repository) loadLines(ctx context.Context, o *joborders.JobOrder) error {
	var err error
	if o.Services, err = r.queryLines(ctx, "job_order_services", o.ID); err != nil {
		return err
	}
	o.Parts, err = r.queryLines(ctx, "job_order_parts", o.ID)
	return err
}

func (r *repository) queryLines(ctx context.Context, table string, orderID int64) ([]joborders.LineItem, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf("SELECT id, code, description, quantity, unit, price, total FROM %s WHERE job_order_id = $1 ORDER BY id ASC", table),
		orderID)
	if err != nil {
		return nil, fmt.Errorf("reports: load lines: %w", err)
	}
	defer rows.Close()

	var lines []joborders.LineItem
	for rows.Next() {
		var l joborders.LineItem
		if err := rows.Scan(&l.ID, &l.Code, &l.Description, &l.Quantity, &l.Unit, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("reports: scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) InventoryItems(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, code, description, quantity, min_quantity, status, unit_cost, created_at, updated_at FROM inventory")
	if err != nil {
		return nil, fmt.Errorf("reports: inventory: %w", err)
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		var it inventory.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Description, &it.Quantity, &it.MinQuantity, &it.Status, &it.UnitCost, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("reports: scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
