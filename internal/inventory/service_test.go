package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torque-erp/torque-erp/internal/shared"
)

type fakeRepo struct {
	items  map[int64]*Item
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64]*Item)}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]Item, int, error) {
	var out []Item
	for _, it := range r.items {
		if filter.LowStockOnly && it.Status == StatusInStock {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(it.Description), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *it)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeRepo) Create(_ context.Context, item Item) (int64, error) {
	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = &item
	return item.ID, nil
}

func (r *fakeRepo) Update(_ context.Context, item Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return shared.ErrNotFound
	}
	r.items[item.ID] = &item
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) Stock() StockTx {
	var items []Item
	for _, it := range r.items {
		items = append(items, *it)
	}
	return &memoryStock{items: items}
}

func TestCreateDerivesStatus(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, "admin", ItemInput{Description: "BP100 - Brake pad", Quantity: 10, MinQuantity: 3, UnitCost: 850})
	require.NoError(t, err)
	require.Equal(t, StatusInStock, item.Status)

	low, err := svc.Create(ctx, "admin", ItemInput{Description: "OF220 - Oil filter", Quantity: 2, MinQuantity: 5})
	require.NoError(t, err)
	require.Equal(t, StatusLowStock, low.Status)

	out, err := svc.Create(ctx, "admin", ItemInput{Description: "CLU05 - Clutch disc", Quantity: 0})
	require.NoError(t, err)
	require.Equal(t, StatusOutOfStock, out.Status)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.Create(context.Background(), "admin", ItemInput{Description: "  "})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), "admin", ItemInput{Description: "X", Quantity: -1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateRederivesStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, "admin", ItemInput{Description: "BP100 - Brake pad", Quantity: 10, MinQuantity: 3})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "admin", item.ID, ItemInput{Description: "BP100 - Brake pad", Quantity: 2, MinQuantity: 3})
	require.NoError(t, err)
	require.Equal(t, StatusLowStock, updated.Status)
}

func TestUpdateUnknownItem(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.Update(context.Background(), "admin", 99, ItemInput{Description: "X"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, "admin", ItemInput{Description: "BP100 - Brake pad", Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "admin", item.ID))

	_, err = svc.Get(ctx, item.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListLowStockFilter(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin", ItemInput{Description: "A", Quantity: 10, MinQuantity: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "admin", ItemInput{Description: "B", Quantity: 1, MinQuantity: 5})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, ListFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "B", items[0].Description)
}
