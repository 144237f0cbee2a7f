package inventory

import (
	"context"
	"strings"
)

// StockTx is the transactional view of inventory rows required by the
// deduction algorithm. The production implementation runs on the same
// pgx transaction as the job-order write; tests supply an in-memory fake.
type StockTx interface {
	FindForUpdateByCode(ctx context.Context, code string) ([]Item, error)
	FindForUpdateByDescription(ctx context.Context, description string) ([]Item, error)
	UpdateStock(ctx context.Context, id int64, quantity int, status string) error
}

// DeductParts applies the clamped stock decrement for each part line.
//
// Rules carried over from the shop's bookkeeping:
//   - blank descriptions and non-positive quantities are skipped
//   - the code is the explicit part code, else the token before " - "
//   - rows match by code when one resolves, else by exact description
//   - quantity is floored at zero and status recomputed in the same write
//   - an unmatched part is a silent no-op, never an error
func DeductParts(ctx context.Context, tx StockTx, parts []PartUsage) error {
	for _, part := range parts {
		if strings.TrimSpace(part.Description) == "" || part.Qty <= 0 {
			continue
		}

		var (
			items []Item
			err   error
		)
		if code := part.ResolveCode(); code != "" {
			items, err = tx.FindForUpdateByCode(ctx, code)
		} else {
			items, err = tx.FindForUpdateByDescription(ctx, strings.TrimSpace(part.Description))
		}
		if err != nil {
			return err
		}

		for _, item := range items {
			quantity := item.Quantity - part.Qty
			if quantity < 0 {
				quantity = 0
			}
			status := DeriveStatus(quantity, item.MinQuantity)
			if err := tx.UpdateStock(ctx, item.ID, quantity, status); err != nil {
				return err
			}
		}
	}
	return nil
}
