// Package inventory tracks stock-keeping records and applies the part
// deductions consumed by completed job orders.
package inventory

import (
	"strings"
	"time"
)

// Stock statuses derived from quantity against the reorder threshold.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// Item is a stock-keeping record.
type Item struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Status      string    `json:"status"`
	UnitCost    float64   `json:"unit_cost"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PartUsage describes one part line consumed by a job order.
type PartUsage struct {
	Code        string
	Description string
	Qty         int
}

// DeriveStatus returns the stock status for a quantity against the
// reorder threshold. Out of Stock wins over Low Stock.
func DeriveStatus(quantity, minQuantity int) string {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case minQuantity > 0 && quantity <= minQuantity:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// CodeFromDescription extracts the inventory code from a part description
// of the form "CODE - rest of description". Returns "" when the
// description is blank.
func CodeFromDescription(description string) string {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return ""
	}
	code, _, _ := strings.Cut(desc, " - ")
	return strings.TrimSpace(code)
}

// ResolveCode picks the explicit part code when present, else falls back
// to the leading token of the description.
func (p PartUsage) ResolveCode() string {
	if code := strings.TrimSpace(p.Code); code != "" {
		return code
	}
	return CodeFromDescription(p.Description)
}
