package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
)

func newDraftOrder(t *testing.T) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(10, 99)
	require.NoError(t, err)
	return o
}

func orderInStatus(t *testing.T, status domain.OrderStatus) *domain.Order {
	t.Helper()
	o := newDraftOrder(t)
	require.NoError(t, o.AddLine(mustSku(t, "ABC-123"), mustQty(t, 1)))
	steps := map[domain.OrderStatus][]func() error{
		domain.StatusDraft:    nil,
		domain.StatusPlaced:   {o.Place},
		domain.StatusReserved: {o.Place, o.MarkReserved},
		domain.StatusShipped:  {o.Place, o.MarkReserved, o.MarkShipped},
	}
	for _, step := range steps[status] {
		require.NoError(t, step())
	}
	return o
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := domain.NewOrder(0, 1)
	assert.IsType(t, &apperror.ValidationError{}, err)
	_, err = domain.NewOrder(1, -1)
	assert.IsType(t, &apperror.ValidationError{}, err)

	o := newDraftOrder(t)
	assert.Equal(t, domain.StatusDraft, o.Status())
}

func TestAddLine_MergesSameSku(t *testing.T) {
	o := newDraftOrder(t)

	require.NoError(t, o.AddLine(mustSku(t, "abc-123"), mustQty(t, 2)))
	require.NoError(t, o.AddLine(mustSku(t, "ABC-123 "), mustQty(t, 3)))

	lines := o.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity().Int())
	assert.Equal(t, 1, lines[0].ID())
}

func TestAddLine_RejectsZeroAndNonDraft(t *testing.T) {
	o := newDraftOrder(t)
	assert.IsType(t, &apperror.ValidationError{}, o.AddLine(mustSku(t, "ABC-123"), mustQty(t, 0)))

	placed := orderInStatus(t, domain.StatusPlaced)
	err := placed.AddLine(mustSku(t, "XYZ-999"), mustQty(t, 1))
	assert.IsType(t, &apperror.InvariantViolationError{}, err)
	assert.Len(t, placed.Lines(), 1)
}

func TestRemoveLine_AbsentSkuIsNoop(t *testing.T) {
	o := newDraftOrder(t)
	require.NoError(t, o.AddLine(mustSku(t, "ABC-123"), mustQty(t, 1)))

	require.NoError(t, o.RemoveLine(mustSku(t, "XYZ-999")))
	assert.Len(t, o.Lines(), 1)

	require.NoError(t, o.RemoveLine(mustSku(t, "abc-123")))
	assert.Empty(t, o.Lines())
}

func TestChangeQuantity(t *testing.T) {
	o := newDraftOrder(t)
	require.NoError(t, o.AddLine(mustSku(t, "ABC-123"), mustQty(t, 4)))
	require.NoError(t, o.AddLine(mustSku(t, "XYZ-999"), mustQty(t, 1)))

	require.NoError(t, o.ChangeQuantity(mustSku(t, "ABC-123"), 2))
	assert.Equal(t, 2, o.Lines()[0].Quantity().Int())

	require.NoError(t, o.ChangeQuantity(mustSku(t, "ABC-123"), 9))
	assert.Equal(t, 9, o.Lines()[0].Quantity().Int())

	require.NoError(t, o.ChangeQuantity(mustSku(t, "XYZ-999"), 0))
	assert.Len(t, o.Lines(), 1)

	err := o.ChangeQuantity(mustSku(t, "NOPE-1"), 3)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestPlace_WithoutLinesFails(t *testing.T) {
	o := newDraftOrder(t)

	err := o.Place()

	assert.IsType(t, &apperror.InvariantViolationError{}, err)
	assert.Equal(t, domain.StatusDraft, o.Status())
	assert.Empty(t, o.PendingEvents())
}

func TestPlace_RaisesOrderPlaced(t *testing.T) {
	o := orderInStatus(t, domain.StatusPlaced)

	events := o.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.OrderPlaced{OrderID: 10, CustomerID: 99}, events[0].Payload)

	o.ClearEvents()
	assert.Empty(t, o.PendingEvents())
	assert.IsType(t, &apperror.InvariantViolationError{}, o.Place())
}

func TestStatusTransitions_RequireSourceState(t *testing.T) {
	draft := orderInStatus(t, domain.StatusDraft)
	assert.IsType(t, &apperror.InvariantViolationError{}, draft.MarkReserved())
	assert.IsType(t, &apperror.InvariantViolationError{}, draft.MarkShipped())

	placed := orderInStatus(t, domain.StatusPlaced)
	assert.IsType(t, &apperror.InvariantViolationError{}, placed.MarkShipped())
	assert.Equal(t, domain.StatusPlaced, placed.Status())
}

func TestCancel(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.StatusDraft, domain.StatusPlaced, domain.StatusReserved} {
		t.Run(string(status), func(t *testing.T) {
			o := orderInStatus(t, status)
			require.NoError(t, o.Cancel())
			assert.Equal(t, domain.StatusCancelled, o.Status())
			require.NoError(t, o.Cancel())
		})
	}

	shipped := orderInStatus(t, domain.StatusShipped)
	assert.IsType(t, &apperror.InvariantViolationError{}, shipped.Cancel())
	assert.Equal(t, domain.StatusShipped, shipped.Status())
}

func TestOrderSnapshot_RestoresLineSequence(t *testing.T) {
	o := newDraftOrder(t)
	require.NoError(t, o.AddLine(mustSku(t, "ABC-123"), mustQty(t, 1)))
	require.NoError(t, o.AddLine(mustSku(t, "XYZ-999"), mustQty(t, 2)))
	require.NoError(t, o.RemoveLine(mustSku(t, "XYZ-999")))

	restored, err := domain.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	require.NoError(t, restored.AddLine(mustSku(t, "QQQ-111"), mustQty(t, 1)))

	lines := restored.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[1].ID())
}

func TestParseOrderStatus_Unknown(t *testing.T) {
	_, err := domain.ParseOrderStatus("Lost")
	assert.IsType(t, &apperror.ValidationError{}, err)
}
