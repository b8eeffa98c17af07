package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
)

func newStockedWarehouse(t *testing.T, stock map[string]int) *domain.Warehouse {
	t.Helper()
	w, err := domain.NewWarehouse(1, "Central")
	require.NoError(t, err)
	for sku, qty := range stock {
		require.NoError(t, w.AddStock(mustSku(t, sku), mustQty(t, qty)))
	}
	return w
}

func TestNewWarehouse_Validation(t *testing.T) {
	_, err := domain.NewWarehouse(0, "Central")
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = domain.NewWarehouse(1, "   ")
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestGetOrCreateStockItem_IsIdempotent(t *testing.T) {
	w := newStockedWarehouse(t, nil)
	sku := mustSku(t, "abc-123")

	first := w.GetOrCreateStockItem(sku)
	second := w.GetOrCreateStockItem(mustSku(t, "ABC-123"))

	assert.Same(t, first, second)
	assert.Len(t, w.StockItems(), 1)
	assert.True(t, first.OnHand().IsZero())
}

func TestAddStock_InvalidQuantityDoesNotCreateItem(t *testing.T) {
	w := newStockedWarehouse(t, nil)

	err := w.AddStock(mustSku(t, "ABC-123"), mustQty(t, 0))

	assert.IsType(t, &apperror.ValidationError{}, err)
	_, ok := w.StockItem(mustSku(t, "ABC-123"))
	assert.False(t, ok)
}

func TestReserveStock_RaisesEvent(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 10})

	require.NoError(t, w.ReserveStock(42, mustSku(t, "abc-123"), mustQty(t, 3)))

	item, _ := w.StockItem(mustSku(t, "ABC-123"))
	assert.Equal(t, 3, item.Reserved().Int())
	assert.Equal(t, 7, item.Available().Int())

	events := w.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventStockReserved, events[0].Type)
	assert.Equal(t, domain.StockReserved{OrderID: 42, WarehouseID: 1, Sku: "ABC-123", Quantity: 3}, events[0].Payload)
}

func TestReserveStock_InsufficientLeavesItemUnchanged(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 5})

	err := w.ReserveStock(1, mustSku(t, "ABC-123"), mustQty(t, 6))

	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	item, _ := w.StockItem(mustSku(t, "ABC-123"))
	assert.Equal(t, 5, item.OnHand().Int())
	assert.Equal(t, 0, item.Reserved().Int())
	assert.Empty(t, w.PendingEvents())
}

func TestReserveStock_UnknownSkuAndInvalidOrder(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 5})

	err := w.ReserveStock(1, mustSku(t, "XYZ-999"), mustQty(t, 1))
	assert.IsType(t, &apperror.NotFoundError{}, err)

	err = w.ReserveStock(0, mustSku(t, "ABC-123"), mustQty(t, 1))
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestUnreserveAndShip_GuardReservedQuantity(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 10})
	sku := mustSku(t, "ABC-123")
	require.NoError(t, w.ReserveStock(1, sku, mustQty(t, 4)))

	assert.IsType(t, &apperror.InvariantViolationError{}, w.UnreserveStock(sku, mustQty(t, 5)))
	assert.IsType(t, &apperror.InvariantViolationError{}, w.ShipReservedStock(sku, mustQty(t, 5)))

	require.NoError(t, w.UnreserveStock(sku, mustQty(t, 1)))
	require.NoError(t, w.ShipReservedStock(sku, mustQty(t, 3)))

	item, _ := w.StockItem(sku)
	assert.Equal(t, 7, item.OnHand().Int())
	assert.Equal(t, 0, item.Reserved().Int())
	// Expedição não emite evento.
	assert.Len(t, w.PendingEvents(), 1)
}

func TestReserveLines_AllOrNothing(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 10, "XYZ-999": 1})
	lines := []domain.LineItem{
		{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 3)},
		{Sku: mustSku(t, "XYZ-999"), Quantity: mustQty(t, 2)},
	}

	err := w.ReserveLines(7, lines)

	assert.IsType(t, &apperror.InsufficientStockError{}, err)
	abc, _ := w.StockItem(mustSku(t, "ABC-123"))
	assert.Equal(t, 0, abc.Reserved().Int())
	assert.Empty(t, w.PendingEvents())
}

func TestReserveLines_SumsDuplicateSkusBeforeChecking(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 5})
	lines := []domain.LineItem{
		{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 3)},
		{Sku: mustSku(t, "abc-123"), Quantity: mustQty(t, 3)},
	}

	err := w.ReserveLines(7, lines)

	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	abc, _ := w.StockItem(mustSku(t, "ABC-123"))
	assert.Equal(t, 0, abc.Reserved().Int())
}

func TestShipReservedLines_AllOrNothing(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 10, "XYZ-999": 10})
	require.NoError(t, w.ReserveStock(1, mustSku(t, "ABC-123"), mustQty(t, 3)))

	err := w.ShipReservedLines([]domain.LineItem{
		{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 3)},
		{Sku: mustSku(t, "XYZ-999"), Quantity: mustQty(t, 1)},
	})

	assert.IsType(t, &apperror.InvariantViolationError{}, err)
	abc, _ := w.StockItem(mustSku(t, "ABC-123"))
	assert.Equal(t, 10, abc.OnHand().Int())
	assert.Equal(t, 3, abc.Reserved().Int())
}

func TestReserveLines_FirstFailingLineDecidesError(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 5})
	lines := []domain.LineItem{
		{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 6)},
		{Sku: mustSku(t, "XYZ-999"), Quantity: mustQty(t, 1)},
	}

	err := w.ReserveLines(7, lines)

	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "ABC-123", stockErr.Sku)

	err = w.ReserveLines(7, []domain.LineItem{lines[1], lines[0]})
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Empty(t, w.PendingEvents())
}

func TestShipReservedLines_FirstFailingLineDecidesError(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"ABC-123": 5})
	require.NoError(t, w.ReserveStock(1, mustSku(t, "ABC-123"), mustQty(t, 2)))
	lines := []domain.LineItem{
		{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 3)},
		{Sku: mustSku(t, "XYZ-999"), Quantity: mustQty(t, 1)},
	}

	err := w.ShipReservedLines(lines)

	assert.IsType(t, &apperror.InvariantViolationError{}, err)
	abc, _ := w.StockItem(mustSku(t, "ABC-123"))
	assert.Equal(t, 5, abc.OnHand().Int())
	assert.Equal(t, 2, abc.Reserved().Int())
}

func TestWarehouseSnapshot_RestoresState(t *testing.T) {
	w := newStockedWarehouse(t, map[string]int{"XYZ-999": 4, "ABC-123": 10})
	require.NoError(t, w.ReserveStock(1, mustSku(t, "ABC-123"), mustQty(t, 2)))
	w.MarkPersisted(3)

	snap := w.Snapshot()
	require.Len(t, snap.Stock, 2)
	assert.Equal(t, "ABC-123", snap.Stock[0].Sku)
	assert.Equal(t, 8, snap.Stock[0].Available)

	restored, err := domain.RestoreWarehouse(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Empty(t, restored.PendingEvents())
}

func TestRestoreWarehouse_RejectsOverReservation(t *testing.T) {
	_, err := domain.RestoreWarehouse(domain.WarehouseSnapshot{
		ID:    1,
		Name:  "Central",
		Stock: []domain.StockItemSnapshot{{Sku: "ABC-123", OnHand: 1, Reserved: 2}},
	})
	assert.IsType(t, &apperror.InvariantViolationError{}, err)
}
