package inventory

import (
	"context"
	"strconv"
	"strings"

	"github.com/torque-erp/torque-erp/internal/shared"
)

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates inventory operations.
type Service struct {
	repo  Repository
	audit AuditPort
}

// NewService builds Service.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// ItemInput carries the caller-supplied inventory fields.
type ItemInput struct {
	Code        string  `json:"code"`
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	MinQuantity int     `json:"min_quantity" validate:"gte=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
}

// List returns inventory items with pagination metadata.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Get fetches a single item.
func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	if id <= 0 {
		return nil, shared.ValidationErrorf("invalid inventory id")
	}
	return s.repo.Get(ctx, id)
}

// Create persists a new item with its derived stock status.
func (s *Service) Create(ctx context.Context, actor string, input ItemInput) (*Item, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, shared.ValidationErrorf("description is required")
	}
	if input.Quantity < 0 || input.MinQuantity < 0 || input.UnitCost < 0 {
		return nil, shared.ValidationErrorf("quantities and unit cost must not be negative")
	}

	item := Item{
		Code:        strings.TrimSpace(input.Code),
		Description: strings.TrimSpace(input.Description),
		Quantity:    input.Quantity,
		MinQuantity: input.MinQuantity,
		Status:      DeriveStatus(input.Quantity, input.MinQuantity),
		UnitCost:    input.UnitCost,
	}
	id, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, "inventory:create", id, item)
	return s.repo.Get(ctx, id)
}

// Update replaces the stored fields and re-derives the status.
func (s *Service) Update(ctx context.Context, actor string, id int64, input ItemInput) (*Item, error) {
	if id <= 0 {
		return nil, shared.ValidationErrorf("invalid inventory id")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, shared.ValidationErrorf("description is required")
	}
	if input.Quantity < 0 || input.MinQuantity < 0 || input.UnitCost < 0 {
		return nil, shared.ValidationErrorf("quantities and unit cost must not be negative")
	}

	item := Item{
		ID:          id,
		Code:        strings.TrimSpace(input.Code),
		Description: strings.TrimSpace(input.Description),
		Quantity:    input.Quantity,
		MinQuantity: input.MinQuantity,
		Status:      DeriveStatus(input.Quantity, input.MinQuantity),
		UnitCost:    input.UnitCost,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, "inventory:update", id, item)
	return s.repo.Get(ctx, id)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, actor string, id int64) error {
	if id <= 0 {
		return shared.ValidationErrorf("invalid inventory id")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor, "inventory:delete", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor, action string, id int64, item any) {
	if s.audit == nil {
		return
	}
	meta := map[string]any{}
	if it, ok := item.(Item); ok {
		meta["code"] = it.Code
		meta["quantity"] = it.Quantity
		meta["status"] = it.Status
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "inventory",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}
