package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryStock struct {
	items []Item
}

func (m *memoryStock) FindForUpdateByCode(_ context.Context, code string) ([]Item, error) {
	var out []Item
	for _, it := range m.items {
		if it.Code == code {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memoryStock) FindForUpdateByDescription(_ context.Context, description string) ([]Item, error) {
	var out []Item
	for _, it := range m.items {
		if it.Description == description {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memoryStock) UpdateStock(_ context.Context, id int64, quantity int, status string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Quantity = quantity
			m.items[i].Status = status
		}
	}
	return nil
}

func (m *memoryStock) find(code string) Item {
	for _, it := range m.items {
		if it.Code == code {
			return it
		}
	}
	return Item{}
}

func TestDeductPartsByCode(t *testing.T) {
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Description: "X1 - brake pad", Qty: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 8, stock.find("X1").Quantity)
	require.Equal(t, StatusInStock, stock.find("X1").Status)
}

func TestDeductPartsPrefersExplicitCode(t *testing.T) {
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "OF-204", Description: "oil filter", Quantity: 5, MinQuantity: 0, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Code: "OF-204", Description: "something else entirely", Qty: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 4, stock.find("OF-204").Quantity)
}

func TestDeductPartsClampsAtZero(t *testing.T) {
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 3, MinQuantity: 2, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Description: "X1 - brake pad", Qty: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 0, stock.find("X1").Quantity)
	require.Equal(t, StatusOutOfStock, stock.find("X1").Status)
}

func TestDeductPartsLowStockThreshold(t *testing.T) {
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Description: "X1 - brake pad", Qty: 7},
	})
	require.NoError(t, err)
	require.Equal(t, 3, stock.find("X1").Quantity)
	require.Equal(t, StatusLowStock, stock.find("X1").Status)
}

func TestDeductPartsFallsBackToDescription(t *testing.T) {
	// A description without the " - " separator resolves its full text as
	// the code; only an all-blank description falls through to the
	// description match.
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "", Description: "coolant 1L", Quantity: 4, MinQuantity: 0, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Description: "coolant 1L", Qty: 1},
	})
	require.NoError(t, err)
	// "coolant 1L" resolves as a code with no match: silent no-op.
	require.Equal(t, 4, stock.items[0].Quantity)
}

func TestDeductPartsSkipsBlankAndNonPositive(t *testing.T) {
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Description: "   ", Qty: 5},
		{Description: "X1 - brake pad", Qty: 0},
		{Description: "X1 - brake pad", Qty: -2},
	})
	require.NoError(t, err)
	require.Equal(t, 10, stock.find("X1").Quantity)
}

func TestDeductPartsUnmatchedIsSilentNoop(t *testing.T) {
	stock := &memoryStock{items: []Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: StatusInStock},
	}}

	err := DeductParts(context.Background(), stock, []PartUsage{
		{Description: "ZZ-999 - unknown part", Qty: 5},
	})
	require.NoError(t, err)
	require.Equal(t, 10, stock.find("X1").Quantity)
}

func TestCodeFromDescription(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"X1 - brake pad", "X1"},
		{"  X1 - brake pad  ", "X1"},
		{"X1", "X1"},
		{"", ""},
		{"   ", ""},
		{"A - B - C", "A"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CodeFromDescription(tc.in), "input %q", tc.in)
	}
}

func TestDeriveStatus(t *testing.T) {
	require.Equal(t, StatusOutOfStock, DeriveStatus(0, 5))
	require.Equal(t, StatusOutOfStock, DeriveStatus(-1, 0))
	require.Equal(t, StatusLowStock, DeriveStatus(3, 3))
	require.Equal(t, StatusLowStock, DeriveStatus(1, 5))
	require.Equal(t, StatusInStock, DeriveStatus(4, 3))
	require.Equal(t, StatusInStock, DeriveStatus(2, 0))
}

func TestResolveCodeTrimsWhitespace(t *testing.T) {
	p := PartUsage{Code: "  AB-1  ", Description: "X1 - pad"}
	require.Equal(t, "AB-1", p.ResolveCode())
	require.Equal(t, "X1", PartUsage{Description: "X1 - pad"}.ResolveCode())
	require.Equal(t, "", PartUsage{Description: strings.Repeat(" ", 3)}.ResolveCode())
}
