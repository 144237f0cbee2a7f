package joborders

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torque-erp/torque-erp/internal/inventory"
	"github.com/torque-erp/torque-erp/internal/shared"
)

type fakeStock struct {
	items []inventory.Item
}

func (f *fakeStock) FindForUpdateByCode(_ context.Context, code string) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, it := range f.items {
		if it.Code == code {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStock) FindForUpdateByDescription(_ context.Context, description string) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, it := range f.items {
		if it.Description == description {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStock) UpdateStock(_ context.Context, id int64, quantity int, status string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Quantity = quantity
			f.items[i].Status = status
		}
	}
	return nil
}

func (f *fakeStock) find(code string) inventory.Item {
	for _, it := range f.items {
		if it.Code == code {
			return it
		}
	}
	return inventory.Item{}
}

type fakeRepo struct {
	orders map[int64]*JobOrder
	nextID int64
	stock  *fakeStock
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[int64]*JobOrder), stock: &fakeStock{}}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*JobOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]JobOrder, error) {
	var out []JobOrder
	for _, o := range r.orders {
		if filter.DisplayNumber != nil && o.DisplayNumber != *filter.DisplayNumber {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRepo) StatusAndNumber(_ context.Context, id int64) (Status, int, error) {
	o, ok := r.orders[id]
	if !ok {
		return "", 0, shared.ErrNotFound
	}
	return o.Status, o.DisplayNumber, nil
}

func (r *fakeRepo) Insert(_ context.Context, order JobOrder) (int64, error) {
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = &order
	return order.ID, nil
}

func (r *fakeRepo) UpdateHeader(_ context.Context, order JobOrder) error {
	existing, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	order.Services = existing.Services
	order.Parts = existing.Parts
	r.orders[order.ID] = &order
	return nil
}

func (r *fakeRepo) ReplaceLines(_ context.Context, orderID int64, services, parts []LineItem) error {
	o, ok := r.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	o.Services = services
	o.Parts = parts
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeRepo) NextCompletedNumber(_ context.Context) (int, error) {
	max := 0
	for _, o := range r.orders {
		if o.Status == StatusCompleted && o.DisplayNumber > max {
			max = o.DisplayNumber
		}
	}
	return max + 1, nil
}

func (r *fakeRepo) CompactFrom(_ context.Context, removed int) error {
	for _, o := range r.orders {
		if o.Status == StatusCompleted && o.DisplayNumber > removed {
			o.DisplayNumber--
		}
	}
	return nil
}

func (r *fakeRepo) Stock() inventory.StockTx {
	return r.stock
}

// completedNumbers returns the sorted display numbers of completed orders.
func (r *fakeRepo) completedNumbers() []int {
	var nums []int
	for _, o := range r.orders {
		if o.Status == StatusCompleted {
			nums = append(nums, o.DisplayNumber)
		}
	}
	sort.Ints(nums)
	return nums
}

func requireDense(t *testing.T, repo *fakeRepo) {
	t.Helper()
	nums := repo.completedNumbers()
	for i, n := range nums {
		require.Equal(t, i+1, n, "completed numbers must be dense 1..N, got %v", nums)
	}
	for _, o := range repo.orders {
		if o.Status != StatusCompleted {
			require.Zero(t, o.DisplayNumber, "non-completed order %d must hold number 0", o.ID)
		}
	}
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, nil, nil)
}

func pendingInput(client string) Input {
	return Input{ClientName: client, Status: StatusPending, PaymentType: PaymentCash, CustomerType: "Private"}
}

func completedInput(client string) Input {
	in := pendingInput(client)
	in.Status = StatusCompleted
	return in
}

func TestCreateRequiresClientName(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), "admin", Input{ClientName: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreatePendingHoldsZeroNumber(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	order, err := svc.Create(context.Background(), "admin", pendingInput("Dela Cruz"))
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.Zero(t, order.DisplayNumber)
}

func TestCreateCompletedAssignsNumberAndDeducts(t *testing.T) {
	repo := newFakeRepo()
	repo.stock.items = []inventory.Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: inventory.StatusInStock},
	}
	svc := newTestService(repo)

	input := completedInput("Reyes")
	input.Parts = []LineInput{{Description: "X1 - brake pad", Qty: 2, Unit: "pc", Price: 750}}

	order, err := svc.Create(context.Background(), "admin", input)
	require.NoError(t, err)
	require.Equal(t, 1, order.DisplayNumber)
	require.Equal(t, 8, repo.stock.find("X1").Quantity)
	require.Equal(t, inventory.StatusInStock, repo.stock.find("X1").Status)
	require.Len(t, order.Parts, 1)
	require.Equal(t, 1500.0, order.Parts[0].LineTotal)
}

func TestCompletedNumbersStayDense(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, "admin", completedInput("A"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, "admin", completedInput("B"))
	require.NoError(t, err)
	c, err := svc.Create(ctx, "admin", completedInput("C"))
	require.NoError(t, err)

	require.Equal(t, 1, a.DisplayNumber)
	require.Equal(t, 2, b.DisplayNumber)
	require.Equal(t, 3, c.DisplayNumber)
	requireDense(t, repo)

	// Deleting the middle order shifts the ones above it down.
	require.NoError(t, svc.Delete(ctx, "admin", b.ID))
	requireDense(t, repo)

	updated, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, 2, updated.DisplayNumber)

	first, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, first.DisplayNumber)
}

func TestRevertCompletedCompactsAndZeroes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, "admin", completedInput("A"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, "admin", completedInput("B"))
	require.NoError(t, err)

	reverted, err := svc.Update(ctx, "admin", a.ID, pendingInput("A"))
	require.NoError(t, err)
	require.Zero(t, reverted.DisplayNumber)
	requireDense(t, repo)

	second, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, 1, second.DisplayNumber)
}

func TestSaveCompletedKeepsNumberAndSkipsDeduction(t *testing.T) {
	repo := newFakeRepo()
	repo.stock.items = []inventory.Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: inventory.StatusInStock},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	input := completedInput("Santos")
	input.Parts = []LineInput{{Description: "X1 - brake pad", Qty: 2, Unit: "pc", Price: 750}}

	order, err := svc.Create(ctx, "admin", input)
	require.NoError(t, err)
	require.Equal(t, 8, repo.stock.find("X1").Quantity)

	// Saving again while still Completed must not consume more stock.
	saved, err := svc.Update(ctx, "admin", order.ID, input)
	require.NoError(t, err)
	require.Equal(t, order.DisplayNumber, saved.DisplayNumber)
	require.Equal(t, 8, repo.stock.find("X1").Quantity)
}

func TestTransitionToCompletedDeductsOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.stock.items = []inventory.Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: inventory.StatusInStock},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	input := pendingInput("Cruz")
	input.Parts = []LineInput{{Description: "X1 - brake pad", Qty: 4, Unit: "pc", Price: 750}}

	order, err := svc.Create(ctx, "admin", input)
	require.NoError(t, err)
	require.Equal(t, 10, repo.stock.find("X1").Quantity)

	input.Status = StatusCompleted
	completed, err := svc.Update(ctx, "admin", order.ID, input)
	require.NoError(t, err)
	require.Equal(t, 1, completed.DisplayNumber)
	require.Equal(t, 6, repo.stock.find("X1").Quantity)

	// Another save of the already-completed order is a no-op for stock.
	_, err = svc.Update(ctx, "admin", order.ID, input)
	require.NoError(t, err)
	require.Equal(t, 6, repo.stock.find("X1").Quantity)
}

func TestRevertDoesNotRestock(t *testing.T) {
	repo := newFakeRepo()
	repo.stock.items = []inventory.Item{
		{ID: 1, Code: "X1", Description: "X1 - brake pad", Quantity: 10, MinQuantity: 3, Status: inventory.StatusInStock},
	}
	svc := newTestService(repo)
	ctx := context.Background()

	input := completedInput("Garcia")
	input.Parts = []LineInput{{Description: "X1 - brake pad", Qty: 2, Unit: "pc", Price: 750}}

	order, err := svc.Create(ctx, "admin", input)
	require.NoError(t, err)
	require.Equal(t, 8, repo.stock.find("X1").Quantity)

	input.Status = StatusPending
	_, err = svc.Update(ctx, "admin", order.ID, input)
	require.NoError(t, err)
	require.Equal(t, 8, repo.stock.find("X1").Quantity)
}

func TestDeleteNonCompletedSkipsCompaction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin", completedInput("A"))
	require.NoError(t, err)
	pending, err := svc.Create(ctx, "admin", pendingInput("B"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "admin", pending.ID))
	requireDense(t, repo)
	require.Equal(t, []int{1}, repo.completedNumbers())
}

func TestDeleteUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeRepo())
	require.ErrorIs(t, svc.Delete(context.Background(), "admin", 99), shared.ErrNotFound)
}

func TestUpdateUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeRepo())
	_, err := svc.Update(context.Background(), "admin", 42, pendingInput("X"))
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentTypeNormalization(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	order, err := svc.Create(ctx, "admin", Input{ClientName: "A", Status: StatusPending})
	require.NoError(t, err)
	require.Equal(t, PaymentCash, order.PaymentType)

	in := pendingInput("B")
	in.PaymentType = "Accounts Receivable"
	order, err = svc.Create(ctx, "admin", in)
	require.NoError(t, err)
	require.Equal(t, PaymentAR, order.PaymentType)

	in.PaymentType = "credit"
	order, err = svc.Create(ctx, "admin", in)
	require.NoError(t, err)
	require.Equal(t, PaymentCash, order.PaymentType)
}

func TestBlankLineItemsAreDropped(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	input := pendingInput("Lopez")
	input.Services = []LineInput{
		{Description: "Change oil", Qty: 1, Unit: "job", Price: 500},
		{Description: "   ", Qty: 1, Unit: "job", Price: 100},
	}
	input.Parts = []LineInput{{Description: "", Qty: 3, Price: 50}}

	order, err := svc.Create(context.Background(), "admin", input)
	require.NoError(t, err)
	require.Len(t, order.Services, 1)
	require.Empty(t, order.Parts)
}

func TestMixedLifecycleKeepsDensity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	var ids []int64
	for _, c := range []string{"A", "B", "C", "D", "E"} {
		o, err := svc.Create(ctx, "admin", pendingInput(c))
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	// Complete three, revert one, delete one completed, complete another.
	for _, id := range ids[:3] {
		_, err := svc.Update(ctx, "admin", id, completedInput("X"))
		require.NoError(t, err)
		requireDense(t, repo)
	}
	_, err := svc.Update(ctx, "admin", ids[1], pendingInput("B"))
	require.NoError(t, err)
	requireDense(t, repo)

	require.NoError(t, svc.Delete(ctx, "admin", ids[0]))
	requireDense(t, repo)

	_, err = svc.Update(ctx, "admin", ids[4], completedInput("E"))
	require.NoError(t, err)
	requireDense(t, repo)
	require.Equal(t, []int{1, 2}, repo.completedNumbers())
}
