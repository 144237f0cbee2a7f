package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan re-checks inventory for items at or below their
	// reorder threshold.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskReportWarmup pre-populates the sales report cache.
	TaskReportWarmup = "reports:warmup"
)

// LowStockScanPayload bounds the scan.
type LowStockScanPayload struct {
	Limit int `json:"limit"`
}

// NewLowStockScanTask constructs a low-stock scan task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// ReportWarmupPayload selects the dates to warm. An empty Date means
// today; Days extends the warmup backwards that many calendar days.
type ReportWarmupPayload struct {
	Date string `json:"date"`
	Days int    `json:"days"`
}

// NewReportWarmupTask constructs a report warmup task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
