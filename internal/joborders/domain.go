// Package joborders implements the job-order workflow: creation, edits and
// deletion of work orders, the completed-order display numbering, and the
// inventory deduction that accompanies completion.
package joborders

import "time"

// Status is the lifecycle state of a job order.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Payment types. Anything that is not exactly "Accounts Receivable"
// normalizes to Cash.
const (
	PaymentCash = "Cash"
	PaymentAR   = "Accounts Receivable"
)

// NormalizeStatus maps free-form input onto a known status, defaulting
// to Pending.
func NormalizeStatus(raw string) Status {
	switch Status(raw) {
	case StatusInProgress, StatusCompleted:
		return Status(raw)
	default:
		return StatusPending
	}
}

// NormalizePaymentType keeps "Accounts Receivable" and folds everything
// else onto Cash.
func NormalizePaymentType(raw string) string {
	if raw == PaymentAR {
		return PaymentAR
	}
	return PaymentCash
}

// LineItem is a billable service or part entry on a job order.
type LineItem struct {
	ID          int64   `json:"id,omitempty"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description"`
	Quantity    int     `json:"qty"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"price"`
	LineTotal   float64 `json:"total"`
}

// JobOrder is a work order for one vehicle service visit.
//
// DisplayNumber is the human-facing sequential reference. It is assigned
// only while the order is Completed; all other orders hold 0. Across the
// Completed set the numbers are dense: exactly 1..N with no gaps.
type JobOrder struct {
	ID            int64      `json:"id"`
	DisplayNumber int        `json:"display_no"`
	Status        Status     `json:"status"`
	PaymentType   string     `json:"payment_type"`
	CustomerType  string     `json:"customer_type"`
	ClientName    string     `json:"client"`
	Address       string     `json:"address"`
	ContactNumber string     `json:"contact_no"`
	VehicleModel  string     `json:"vehicle_model"`
	PlateNumber   string     `json:"plate_no"`
	DateIn        time.Time  `json:"date_in"`
	DateRelease   *time.Time `json:"date_release,omitempty"`
	AssignedTo    string     `json:"assigned_to"`
	Subtotal      float64    `json:"subtotal"`
	Discount      float64    `json:"discount"`
	Total         float64    `json:"total"`
	Services      []LineItem `json:"services"`
	Parts         []LineItem `json:"parts"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
