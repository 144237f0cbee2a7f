package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/observability"
)

// LowStockScanJob walks the inventory and logs every item at or below
// its reorder threshold so the shop can restock.
type LowStockScanJob struct {
	Inventory inventory.Repository
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(repo inventory.Repository, logger *slog.Logger, metrics *observability.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Inventory: repo, Logger: logger, Metrics: metrics}
}

// Handle processes low-stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Inventory == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Limit <= 0 {
		payload.Limit = 500
	}

	items, _, err := j.Inventory.List(ctx, inventory.ListFilter{LowStockOnly: true, Limit: payload.Limit})
	if err != nil {
		j.record("error")
		return err
	}
	for _, it := range items {
		j.logger().Warn("inventory at reorder threshold",
			slog.String("code", it.Code),
			slog.String("description", it.Description),
			slog.Int("quantity", it.Quantity),
			slog.Int("min_quantity", it.MinQuantity),
			slog.String("status", it.Status),
		)
	}
	j.logger().Info("low stock scan finished", slog.Int("flagged", len(items)))
	j.record("ok")
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *LowStockScanJob) record(outcome string) {
	if j.Metrics != nil {
		j.Metrics.JobProcessed(TaskLowStockScan, outcome)
	}
}
