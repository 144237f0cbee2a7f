package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/torque-erp/torque-erp/internal/observability"
	"github.com/torque-erp/torque-erp/internal/reports"
)

// ReportWarmupJob pre-populates the sales report cache so the dashboard
// opens on warm keys.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(svc *reports.Service, logger *slog.Logger, metrics *observability.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{Reports: svc, Logger: logger, Metrics: metrics}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := today()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	if _, err := j.Reports.Daily(ctx, day); err != nil {
		j.record("error")
		return err
	}
	if payload.Days > 0 {
		from := day.AddDate(0, 0, -payload.Days)
		if _, err := j.Reports.Range(ctx, from, day); err != nil {
			j.record("error")
			return err
		}
	}

	j.logger().Info("report warmup finished",
		slog.String("date", day.Format("2006-01-02")),
		slog.Int("days", payload.Days))
	j.record("ok")
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReportWarmupJob) record(outcome string) {
	if j.Metrics != nil {
		j.Metrics.JobProcessed(TaskReportWarmup, outcome)
	}
}
