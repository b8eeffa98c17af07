package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
)

func TestCreateShipmentFromOrder_MergesDuplicateSkus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := []domain.LineItem{
		{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 3)},
		{Sku: mustSku(t, "XYZ-999"), Quantity: mustQty(t, 2)},
		{Sku: mustSku(t, "abc-123"), Quantity: mustQty(t, 1)},
	}

	s, err := domain.CreateShipmentFromOrder(5, 10, 1, lines, now)
	require.NoError(t, err)

	got := s.Lines()
	require.Len(t, got, 2)
	assert.Equal(t, "ABC-123", got[0].Sku().String())
	assert.Equal(t, 4, got[0].Quantity().Int())
	assert.Equal(t, now, s.CreatedAt())

	events := s.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.ShipmentCreated{ShipmentID: 5, OrderID: 10, WarehouseID: 1}, events[0].Payload)
}

func TestCreateShipmentFromOrder_EmptyLinesFails(t *testing.T) {
	_, err := domain.CreateShipmentFromOrder(5, 10, 1, nil, time.Now())
	assert.IsType(t, &apperror.InvariantViolationError{}, err)
}

func TestCreateShipmentFromOrder_InvalidIDs(t *testing.T) {
	line := []domain.LineItem{{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 1)}}

	_, err := domain.CreateShipmentFromOrder(0, 10, 1, line, time.Now())
	assert.IsType(t, &apperror.ValidationError{}, err)
	_, err = domain.CreateShipmentFromOrder(5, 10, 0, line, time.Now())
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestRestoreShipment_DoesNotRaiseEvents(t *testing.T) {
	line := []domain.LineItem{{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 1)}}
	s, err := domain.CreateShipmentFromOrder(5, 10, 1, line, time.Now())
	require.NoError(t, err)

	restored, err := domain.RestoreShipment(s.Snapshot())
	require.NoError(t, err)
	assert.Empty(t, restored.PendingEvents())
	assert.True(t, restored.Persisted())
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestOutboxMessage_PayloadDecodesByType(t *testing.T) {
	line := []domain.LineItem{{Sku: mustSku(t, "ABC-123"), Quantity: mustQty(t, 1)}}
	s, err := domain.CreateShipmentFromOrder(5, 10, 1, line, time.Now())
	require.NoError(t, err)

	msg, err := domain.NewOutboxMessage(s.PendingEvents()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"shipmentId":5,"orderId":10,"warehouseId":1}`, string(msg.Payload))

	payload, err := domain.DecodePayload(msg.Type, msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentCreated{ShipmentID: 5, OrderID: 10, WarehouseID: 1}, payload)

	_, err = domain.DecodePayload("Unknown", json.RawMessage(`{}`))
	assert.Error(t, err)
}
