package joborders

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The API accepts two generations of field names: the camelCase names the
// current frontend sends and the snake_case column names older callers
// used. Each payload field below coalesces its synonyms, first non-empty
// wins:
//
//	client / customer_name        contactNumber / contact_no
//	vehicleModel / model          plate / plate_no
//	customerType / type           dateIn / date
//	dateRelease / date_release    assignedTo / assigned_to
//	paymentType / payment_type    total / total_amount

// FlexFloat decodes a JSON number or numeric string; anything malformed
// coerces to zero rather than failing the request.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt decodes a JSON integer or numeric string. Set reports whether a
// usable value was present, so callers can apply defaults.
type FlexInt struct {
	Value int
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		i.Value = int(v)
		i.Set = true
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	i.Value = int(v)
	i.Set = true
	return nil
}

type linePayload struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Qty         FlexInt   `json:"qty"`
	Unit        string    `json:"unit"`
	Price       FlexFloat `json:"price"`
}

type orderPayload struct {
	CustomerType  string    `json:"customerType"`
	CustomerType2 string    `json:"type"`
	Client        string    `json:"client"`
	CustomerName  string    `json:"customer_name"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contactNumber"`
	ContactNo     string    `json:"contact_no"`
	VehicleModel  string    `json:"vehicleModel"`
	Model         string    `json:"model"`
	Plate         string    `json:"plate"`
	PlateNo       string    `json:"plate_no"`
	DateIn        string    `json:"dateIn"`
	Date          string    `json:"date"`
	DateRelease   string    `json:"dateRelease"`
	DateRelease2  string    `json:"date_release"`
	AssignedTo    string    `json:"assignedTo"`
	AssignedTo2   string    `json:"assigned_to"`
	Status        string    `json:"status"`
	PaymentType   string    `json:"paymentType"`
	PaymentType2  string    `json:"payment_type"`
	Subtotal      FlexFloat `json:"subtotal"`
	Discount      FlexFloat `json:"discount"`
	Total         FlexFloat `json:"total"`
	TotalAmount   FlexFloat `json:"total_amount"`

	Services []linePayload `json:"services"`
	Parts    []linePayload `json:"parts"`
}

// LineInput is a normalized service or part row.
type LineInput struct {
	Code        string
	Description string
	Qty         int
	Unit        string
	Price       float64
}

// Input is the normalized, strongly-typed job-order request consumed by
// the workflow service.
type Input struct {
	CustomerType  string
	ClientName    string
	Address       string
	ContactNumber string
	VehicleModel  string
	PlateNumber   string
	DateIn        time.Time
	DateRelease   *time.Time
	AssignedTo    string
	Status        Status
	PaymentType   string
	Subtotal      float64
	Discount      float64
	Total         float64
	Services      []LineInput
	Parts         []LineInput
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeLines(rows []linePayload) []LineInput {
	var lines []LineInput
	for _, row := range rows {
		qty := 1
		if row.Qty.Set {
			qty = row.Qty.Value
		}
		lines = append(lines, LineInput{
			Code:        strings.TrimSpace(row.Code),
			Description: strings.TrimSpace(row.Description),
			Qty:         qty,
			Unit:        strings.TrimSpace(row.Unit),
			Price:       float64(row.Price),
		})
	}
	return lines
}

// DecodeInput decodes a request body into the normalized Input, applying
// the alias table, tolerant numeric coercion and defaulting.
func DecodeInput(data []byte, now time.Time) (Input, error) {
	var p orderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Input{}, err
	}

	input := Input{
		CustomerType:  coalesce(p.CustomerType, p.CustomerType2),
		ClientName:    coalesce(p.Client, p.CustomerName),
		Address:       strings.TrimSpace(p.Address),
		ContactNumber: coalesce(p.ContactNumber, p.ContactNo),
		VehicleModel:  coalesce(p.VehicleModel, p.Model),
		PlateNumber:   coalesce(p.Plate, p.PlateNo),
		AssignedTo:    coalesce(p.AssignedTo, p.AssignedTo2),
		Status:        NormalizeStatus(p.Status),
		PaymentType:   NormalizePaymentType(coalesce(p.PaymentType, p.PaymentType2)),
		Subtotal:      float64(p.Subtotal),
		Discount:      float64(p.Discount),
		Services:      normalizeLines(p.Services),
		Parts:         normalizeLines(p.Parts),
	}
	if input.CustomerType == "" {
		input.CustomerType = "Private"
	}

	if t, ok := parseDate(coalesce(p.DateIn, p.Date)); ok {
		input.DateIn = t
	} else {
		input.DateIn = now.Truncate(24 * time.Hour)
	}
	if t, ok := parseDate(coalesce(p.DateRelease, p.DateRelease2)); ok {
		input.DateRelease = &t
	}

	input.Total = float64(p.Total)
	if input.Total == 0 {
		input.Total = float64(p.TotalAmount)
	}

	return input, nil
}
