package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/torque-erp/torque-erp/internal/joborders"
)

func TestJobOrderHTML(t *testing.T) {
	release := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	order := &joborders.JobOrder{
		ID:            7,
		DisplayNumber: 12,
		Status:        joborders.StatusCompleted,
		PaymentType:   joborders.PaymentCash,
		ClientName:    "Dela Cruz",
		VehicleModel:  "Canter",
		PlateNumber:   "ABC 123",
		DateIn:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		DateRelease:   &release,
		Subtotal:      13000,
		Discount:      500,
		Total:         12500,
		Services: []joborders.LineItem{
			{Description: "Change oil", Quantity: 1, Unit: "job", UnitPrice: 500, LineTotal: 500},
		},
		Parts: []joborders.LineItem{
			{Description: "X1 - brake pad", Quantity: 2, Unit: "pc", UnitPrice: 6250, LineTotal: 12500},
		},
	}

	html, err := JobOrderHTML("Torque Auto Works", order)
	require.NoError(t, err)
	require.Contains(t, html, "Torque Auto Works")
	require.Contains(t, html, "#0012")
	require.Contains(t, html, "Dela Cruz")
	require.Contains(t, html, "April 1, 2025")
	require.Contains(t, html, "April 5, 2025")
	require.Contains(t, html, "Change oil")
	require.Contains(t, html, "X1 - brake pad")
	require.Contains(t, html, "₱12,500.00")
}

func TestJobOrderHTMLOmitsZeroNumber(t *testing.T) {
	order := &joborders.JobOrder{
		Status:     joborders.StatusPending,
		ClientName: "Walk-in",
		DateIn:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	html, err := JobOrderHTML("Torque Auto Works", order)
	require.NoError(t, err)
	require.NotContains(t, html, "#0000")
	require.Contains(t, html, "Pending")
}
