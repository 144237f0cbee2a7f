package reports

import (
	"strings"
	"time"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/joborders"
)

// CostIndex maps a lower-cased inventory code to its unit cost.
type CostIndex map[string]float64

// BuildCostIndex flattens the inventory list into a cost lookup. Blank
// codes are skipped; on duplicates the first occurrence wins.
func BuildCostIndex(items []inventory.Item) CostIndex {
	idx := make(CostIndex, len(items))
	for _, it := range items {
		code := strings.ToLower(strings.TrimSpace(it.Code))
		if code == "" {
			continue
		}
		if _, ok := idx[code]; !ok {
			idx[code] = it.UnitCost
		}
	}
	return idx
}

// OrderTotals is the derived financial view of a single completed order.
//
// Profit covers parts only: service labor has no cost basis in this
// model, so it contributes to revenue but not to profit.
type OrderTotals struct {
	OrderID       int64     `json:"id"`
	DisplayNumber int       `json:"displayNo"`
	ClientName    string    `json:"client"`
	Date          time.Time `json:"date"`
	PaymentType   string    `json:"paymentType"`
	Labor         float64   `json:"totalLabor"`
	Parts         float64   `json:"totalPartsPrice"`
	UnitCost      float64   `json:"unitCostTotal"`
	Discount      float64   `json:"discountValue"`
	Amount        float64   `json:"totalAmount"`
	Profit        float64   `json:"profit"`
}

// Totals is a sum over a set of orders.
type Totals struct {
	Orders   int     `json:"orders"`
	Labor    float64 `json:"totalLabor"`
	Parts    float64 `json:"totalPartsPrice"`
	UnitCost float64 `json:"unitCostTotal"`
	Discount float64 `json:"discountValue"`
	Amount   float64 `json:"totalAmount"`
	Profit   float64 `json:"profit"`
}

// Report partitions the totals by payment type. Anything that is not
// exactly "Accounts Receivable" counts as Cash.
type Report struct {
	From       string        `json:"from"`
	To         string        `json:"to"`
	Cash       Totals        `json:"cash"`
	Receivable Totals        `json:"receivable"`
	Overall    Totals        `json:"overall"`
	Orders     []OrderTotals `json:"orders"`
}

func lineCode(line joborders.LineItem) string {
	if c := strings.TrimSpace(line.Code); c != "" {
		return strings.ToLower(c)
	}
	return strings.ToLower(inventory.CodeFromDescription(line.Description))
}

// ComputeOrderTotals derives the financial figures for one order. Parts
// that match no inventory code contribute zero cost.
func ComputeOrderTotals(order joborders.JobOrder, costs CostIndex) OrderTotals {
	t := OrderTotals{
		OrderID:       order.ID,
		DisplayNumber: order.DisplayNumber,
		ClientName:    order.ClientName,
		Date:          order.DateIn,
		PaymentType:   joborders.NormalizePaymentType(order.PaymentType),
		Discount:      order.Discount,
	}
	for _, s := range order.Services {
		t.Labor += s.LineTotal
	}
	for _, p := range order.Parts {
		t.Parts += p.LineTotal
		if cost, ok := costs[lineCode(p)]; ok {
			t.UnitCost += cost * float64(p.Quantity)
		}
	}
	t.Amount = t.Labor + t.Parts - t.Discount
	t.Profit = t.Parts - t.UnitCost
	return t
}

func (t *Totals) add(o OrderTotals) {
	t.Orders++
	t.Labor += o.Labor
	t.Parts += o.Parts
	t.UnitCost += o.UnitCost
	t.Discount += o.Discount
	t.Amount += o.Amount
	t.Profit += o.Profit
}

// Summarize computes the payment-type partitioned report over the given
// completed orders.
func Summarize(orders []joborders.JobOrder, items []inventory.Item) Report {
	costs := BuildCostIndex(items)
	var report Report
	for _, order := range orders {
		t := ComputeOrderTotals(order, costs)
		report.Orders = append(report.Orders, t)
		if t.PaymentType == joborders.PaymentAR {
			report.Receivable.add(t)
		} else {
			report.Cash.add(t)
		}
		report.Overall.add(t)
	}
	return report
}
