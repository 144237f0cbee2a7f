package joborders

import (
	"context"
	"strconv"
	"strings"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheInvalidator is notified after every successful mutation so derived
// report caches can be bumped.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service orchestrates the job-order workflow. Every mutation runs in a
// single transaction covering the order row, its line items, the display
// number bookkeeping and the inventory deduction.
type Service struct {
	repo  Repository
	audit AuditPort
	cache CacheInvalidator
}

// NewService builds Service.
func NewService(repo Repository, audit AuditPort, cache CacheInvalidator) *Service {
	return &Service{repo: repo, audit: audit, cache: cache}
}

// Get fetches one job order with its line items.
func (s *Service) Get(ctx context.Context, id int64) (*JobOrder, error) {
	if id <= 0 {
		return nil, shared.ValidationErrorf("invalid job order id")
	}
	return s.repo.Get(ctx, id)
}

// List returns job orders, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]JobOrder, error) {
	return s.repo.List(ctx, filter)
}

func buildLines(inputs []LineInput) []LineItem {
	var lines []LineItem
	for _, in := range inputs {
		// Rows without a description are silently dropped, matching
		// the form behavior of empty trailing rows.
		if strings.TrimSpace(in.Description) == "" {
			continue
		}
		lines = append(lines, LineItem{
			Code:        in.Code,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Qty,
			Unit:        in.Unit,
			UnitPrice:   in.Price,
			LineTotal:   float64(in.Qty) * in.Price,
		})
	}
	return lines
}

func partUsages(parts []LineItem) []inventory.PartUsage {
	usages := make([]inventory.PartUsage, 0, len(parts))
	for _, p := range parts {
		usages = append(usages, inventory.PartUsage{Code: p.Code, Description: p.Description, Qty: p.Quantity})
	}
	return usages
}

// Create persists a new job order. An order created directly in Completed
// status claims the next display number and consumes inventory for its
// parts; anything else starts at number 0 with no stock movement.
func (s *Service) Create(ctx context.Context, actor string, input Input) (*JobOrder, error) {
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, shared.ValidationErrorf("client name is required")
	}

	order := orderFromInput(input)
	order.Services = buildLines(input.Services)
	order.Parts = buildLines(input.Parts)

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if order.Status == StatusCompleted {
			number, err := repo.NextCompletedNumber(ctx)
			if err != nil {
				return err
			}
			order.DisplayNumber = number
		}

		var err error
		id, err = repo.Insert(ctx, order)
		if err != nil {
			return err
		}
		if err := repo.ReplaceLines(ctx, id, order.Services, order.Parts); err != nil {
			return err
		}

		if order.Status == StatusCompleted {
			if err := inventory.DeductParts(ctx, repo.Stock(), partUsages(order.Parts)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "joborder:create", id, order)
	s.invalidateCache(ctx)
	return s.repo.Get(ctx, id)
}

// Update replaces the job order and all of its line items.
//
// Display number transitions:
//   - staying Completed keeps the existing number
//   - becoming Completed claims the next number
//   - leaving Completed zeroes the number and compacts the sequence
//
// Inventory is deducted only on the transition into Completed; saving an
// already-Completed order never deducts again.
func (s *Service) Update(ctx context.Context, actor string, id int64, input Input) (*JobOrder, error) {
	if id <= 0 {
		return nil, shared.ValidationErrorf("invalid job order id")
	}
	if strings.TrimSpace(input.ClientName) == "" {
		return nil, shared.ValidationErrorf("client name is required")
	}

	order := orderFromInput(input)
	order.ID = id
	order.Services = buildLines(input.Services)
	order.Parts = buildLines(input.Parts)

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		prevStatus, prevNumber, err := repo.StatusAndNumber(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case order.Status == StatusCompleted && prevNumber > 0:
			// Already carries a completed number, keep it.
			order.DisplayNumber = prevNumber
		case order.Status == StatusCompleted:
			number, err := repo.NextCompletedNumber(ctx)
			if err != nil {
				return err
			}
			order.DisplayNumber = number
		case prevStatus == StatusCompleted && prevNumber > 0:
			// Reverting a completed order: close the numbering gap.
			if err := repo.CompactFrom(ctx, prevNumber); err != nil {
				return err
			}
		}

		if err := repo.UpdateHeader(ctx, order); err != nil {
			return err
		}
		if err := repo.ReplaceLines(ctx, id, order.Services, order.Parts); err != nil {
			return err
		}

		if prevStatus != StatusCompleted && order.Status == StatusCompleted {
			if err := inventory.DeductParts(ctx, repo.Stock(), partUsages(order.Parts)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "joborder:update", id, order)
	s.invalidateCache(ctx)
	return s.repo.Get(ctx, id)
}

// Delete removes a job order. Deleting a completed order compacts the
// display sequence; inventory is never restocked.
func (s *Service) Delete(ctx context.Context, actor string, id int64) error {
	if id <= 0 {
		return shared.ValidationErrorf("invalid job order id")
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		status, number, err := repo.StatusAndNumber(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		if status == StatusCompleted && number > 0 {
			return repo.CompactFrom(ctx, number)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "joborder:delete", id, JobOrder{})
	s.invalidateCache(ctx)
	return nil
}

func orderFromInput(input Input) JobOrder {
	return JobOrder{
		Status:        input.Status,
		PaymentType:   NormalizePaymentType(input.PaymentType),
		CustomerType:  input.CustomerType,
		ClientName:    strings.TrimSpace(input.ClientName),
		Address:       input.Address,
		ContactNumber: input.ContactNumber,
		VehicleModel:  input.VehicleModel,
		PlateNumber:   input.PlateNumber,
		DateIn:        input.DateIn,
		DateRelease:   input.DateRelease,
		AssignedTo:    input.AssignedTo,
		Subtotal:      input.Subtotal,
		Discount:      input.Discount,
		Total:         input.Total,
	}
}

func (s *Service) recordAudit(ctx context.Context, actor, action string, id int64, order JobOrder) {
	if s.audit == nil {
		return
	}
	meta := map[string]any{}
	if order.Status != "" {
		meta["status"] = string(order.Status)
		meta["display_no"] = order.DisplayNumber
		meta["payment_type"] = order.PaymentType
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "job_order",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx)
}
