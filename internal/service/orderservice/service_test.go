package orderservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/repository/memstore"
	"goinventory/internal/service/orderservice"
)

func newService() (*orderservice.Service, *memstore.Store) {
	store := memstore.New()
	return orderservice.NewService(store, logger.NewLogger("error")), store
}

func TestCreateOrder_Success(t *testing.T) {
	svc, _ := newService()

	order, err := svc.CreateOrder(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, 1, order.ID())
	assert.Equal(t, 42, order.CustomerID())
	assert.Equal(t, domain.StatusDraft, order.Status())
}

func TestCreateOrder_InvalidCustomer(t *testing.T) {
	svc, _ := newService()

	_, err := svc.CreateOrder(context.Background(), 0)

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestEditLinesAndPlace(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, 42)
	require.NoError(t, err)

	_, err = svc.AddLine(ctx, order.ID(), "abc-123", 2)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, order.ID(), "ABC-123", 1)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, order.ID(), "xyz-999", 5)
	require.NoError(t, err)
	_, err = svc.ChangeQuantity(ctx, order.ID(), "xyz-999", 0)
	require.NoError(t, err)

	placed, err := svc.PlaceOrder(ctx, order.ID())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPlaced, placed.Status())
	lines := placed.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity().Int())
	assert.Empty(t, placed.PendingEvents())

	outbox := store.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, domain.EventOrderPlaced, outbox[0].Type)
	assert.JSONEq(t, `{"orderId":1,"customerId":42}`, string(outbox[0].Payload))

	stored, err := svc.GetOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, placed.Snapshot(), stored.Snapshot())
}

func TestAddLine_InvalidInputIsRejectedBeforeLoading(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.AddLine(ctx, 999, "ab", 1)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.AddLine(ctx, 999, "ABC-123", 0)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.AddLine(ctx, 999, "ABC-123", 1)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestPlaceOrder_EmptyOrderStaysDraft(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, 42)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, order.ID())

	assert.IsType(t, &apperror.InvariantViolationError{}, err)
	stored, err := svc.GetOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, stored.Status())
	assert.Empty(t, store.Outbox())
}

func TestEditAfterPlace_IsInvariantViolation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	order, _ := svc.CreateOrder(ctx, 42)
	_, err := svc.AddLine(ctx, order.ID(), "ABC-123", 1)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, order.ID())
	require.NoError(t, err)

	_, err = svc.RemoveLine(ctx, order.ID(), "ABC-123")
	assert.IsType(t, &apperror.InvariantViolationError{}, err)

	_, err = svc.ChangeQuantity(ctx, order.ID(), "ABC-123", 4)
	assert.IsType(t, &apperror.InvariantViolationError{}, err)
}

func TestCancelOrder(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	order, _ := svc.CreateOrder(ctx, 42)

	cancelled, err := svc.CancelOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status())

	again, err := svc.CancelOrder(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, again.Status())

	_, err = svc.CancelOrder(ctx, 0)
	assert.IsType(t, &apperror.ValidationError{}, err)
}
