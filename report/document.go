package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/torque-erp/torque-erp/internal/joborders"
)

var pesoPrinter = message.NewPrinter(language.English)

// peso formats an amount with thousands separators, e.g. "₱12,500.00".
func peso(v float64) string {
	return pesoPrinter.Sprintf("₱%.2f", v)
}

var jobOrderTmpl = template.Must(template.New("job_order").Funcs(template.FuncMap{
	"peso": peso,
	"date": func(v any) string {
		var t time.Time
		switch d := v.(type) {
		case time.Time:
			t = d
		case *time.Time:
			if d == nil {
				return ""
			}
			t = *d
		}
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Job Order {{if .Order.DisplayNumber}}#{{printf "%04d" .Order.DisplayNumber}}{{end}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 32px; color: #1a1a1a; }
h1 { font-size: 18px; margin-bottom: 0; }
.meta { color: #555; margin-bottom: 18px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 18px; }
th, td { border: 1px solid #ccc; padding: 5px 8px; text-align: left; }
th { background: #f2f2f2; }
td.num, th.num { text-align: right; }
.totals { width: 40%; margin-left: auto; }
.totals td { border: none; padding: 3px 8px; }
.totals tr.grand td { font-weight: bold; border-top: 1px solid #1a1a1a; }
</style>
</head>
<body>
<h1>{{.ShopName}}</h1>
<p class="meta">Job Order{{if .Order.DisplayNumber}} #{{printf "%04d" .Order.DisplayNumber}}{{end}} &middot; {{.Order.Status}} &middot; {{.Order.PaymentType}}</p>

<table>
<tr><th>Client</th><td>{{.Order.ClientName}}</td><th>Date In</th><td>{{date .Order.DateIn}}</td></tr>
<tr><th>Address</th><td>{{.Order.Address}}</td><th>Date Release</th><td>{{if .Order.DateRelease}}{{date .Order.DateRelease}}{{end}}</td></tr>
<tr><th>Contact</th><td>{{.Order.ContactNumber}}</td><th>Assigned To</th><td>{{.Order.AssignedTo}}</td></tr>
<tr><th>Vehicle</th><td>{{.Order.VehicleModel}}</td><th>Plate No.</th><td>{{.Order.PlateNumber}}</td></tr>
</table>

{{if .Order.Services}}
<h3>Services</h3>
<table>
<tr><th>Description</th><th class="num">Qty</th><th>Unit</th><th class="num">Price</th><th class="num">Total</th></tr>
{{range .Order.Services}}
<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td>{{.Unit}}</td><td class="num">{{peso .UnitPrice}}</td><td class="num">{{peso .LineTotal}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Order.Parts}}
<h3>Parts</h3>
<table>
<tr><th>Description</th><th class="num">Qty</th><th>Unit</th><th class="num">Price</th><th class="num">Total</th></tr>
{{range .Order.Parts}}
<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td>{{.Unit}}</td><td class="num">{{peso .UnitPrice}}</td><td class="num">{{peso .LineTotal}}</td></tr>
{{end}}
</table>
{{end}}

<table class="totals">
<tr><td>Subtotal</td><td class="num">{{peso .Order.Subtotal}}</td></tr>
<tr><td>Discount</td><td class="num">{{peso .Order.Discount}}</td></tr>
<tr class="grand"><td>Total</td><td class="num">{{peso .Order.Total}}</td></tr>
</table>
</body>
</html>`))

// JobOrderHTML renders the printable job-order document.
func JobOrderHTML(shopName string, order *joborders.JobOrder) (string, error) {
	var b strings.Builder
	data := struct {
		ShopName string
		Order    *joborders.JobOrder
	}{ShopName: shopName, Order: order}
	if err := jobOrderTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("report: render job order: %w", err)
	}
	return b.String(), nil
}
