package reports

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/joborders"
	"github.com/torque-erp/torque-erp/internal/shared"
)

const dateLayout = "2006-01-02"

// Service serves cached sales and profit reports.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Daily reports on the completed orders of a single calendar day.
func (s *Service) Daily(ctx context.Context, day time.Time) (Report, error) {
	from := day.Truncate(24 * time.Hour)
	return s.load(ctx, from, from)
}

// Range reports on an inclusive date range.
func (s *Service) Range(ctx context.Context, from, to time.Time) (Report, error) {
	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour)
	if to.Before(from) {
		return Report{}, shared.ValidationErrorf("range end precedes start")
	}
	return s.load(ctx, from, to)
}

func (s *Service) load(ctx context.Context, from, to time.Time) (Report, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "sales", from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return Report{}, err
	}

	var report Report
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, from, to)
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

func (s *Service) compute(ctx context.Context, from, to time.Time) (Report, error) {
	var (
		orders []joborders.JobOrder
		items  []inventory.Item
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.repo.CompletedOrders(ctx, from, to.Add(24*time.Hour))
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.InventoryItems(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	report := Summarize(orders, items)
	report.From = from.Format(dateLayout)
	report.To = to.Format(dateLayout)
	return report, nil
}
