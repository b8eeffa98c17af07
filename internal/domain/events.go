package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType é a tag que identifica a variante de um evento de domínio.
// É gravada na coluna "type" do outbox e usada para desserializar o payload.
type EventType string

const (
	EventOrderPlaced     EventType = "OrderPlaced"
	EventStockReserved   EventType = "StockReserved"
	EventShipmentCreated EventType = "ShipmentCreated"
)

// EventPayload é o conjunto fechado de payloads de eventos de domínio.
// Apenas os tipos deste pacote implementam a interface.
type EventPayload interface {
	EventType() EventType
	sealed()
}

// OrderPlaced é emitido quando um pedido sai de Draft para Placed.
type OrderPlaced struct {
	OrderID    int `json:"orderId"`
	CustomerID int `json:"customerId"`
}

func (OrderPlaced) EventType() EventType { return EventOrderPlaced }
func (OrderPlaced) sealed()              {}

// StockReserved é emitido pelo armazém para cada linha reservada.
type StockReserved struct {
	OrderID     int    `json:"orderId"`
	WarehouseID int    `json:"warehouseId"`
	Sku         string `json:"sku"`
	Quantity    int    `json:"quantity"`
}

func (StockReserved) EventType() EventType { return EventStockReserved }
func (StockReserved) sealed()              {}

// ShipmentCreated é emitido na construção de uma remessa.
type ShipmentCreated struct {
	ShipmentID  int `json:"shipmentId"`
	OrderID     int `json:"orderId"`
	WarehouseID int `json:"warehouseId"`
}

func (ShipmentCreated) EventType() EventType { return EventShipmentCreated }
func (ShipmentCreated) sealed()              {}

// Event é o envelope de um evento de domínio.
type Event struct {
	ID         uuid.UUID
	OccurredAt time.Time
	Type       EventType
	Payload    EventPayload
}

// MarshalPayload serializa apenas o payload, no formato gravado no outbox.
func (e Event) MarshalPayload() ([]byte, error) {
	return json.Marshal(e.Payload)
}

// DecodePayload reconstrói o payload tipado a partir da tag e do JSON gravado.
func DecodePayload(eventType EventType, raw []byte) (EventPayload, error) {
	switch eventType {
	case EventOrderPlaced:
		var p OrderPlaced
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventStockReserved:
		var p StockReserved
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case EventShipmentCreated:
		var p ShipmentCreated
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("tipo de evento desconhecido: %q", eventType)
	}
}

// EventLog acumula os eventos pendentes de um agregado até o commit.
// É embutido em cada raiz de agregado.
type EventLog struct {
	pending []Event
}

func (l *EventLog) raise(payload EventPayload) {
	l.pending = append(l.pending, Event{
		ID:         uuid.New(),
		OccurredAt: time.Now().UTC(),
		Type:       payload.EventType(),
		Payload:    payload,
	})
}

// PendingEvents retorna uma cópia dos eventos ainda não registrados de forma durável.
func (l *EventLog) PendingEvents() []Event {
	if len(l.pending) == 0 {
		return nil
	}
	out := make([]Event, len(l.pending))
	copy(out, l.pending)
	return out
}

// ClearEvents descarta os eventos pendentes. Chamado somente após o commit.
func (l *EventLog) ClearEvents() {
	l.pending = nil
}

// EventSource é implementado por toda raiz de agregado.
type EventSource interface {
	PendingEvents() []Event
	ClearEvents()
}

// OutboxMessage é a linha durável gravada para cada evento na mesma transação
// da escrita do agregado.
type OutboxMessage struct {
	ID          uuid.UUID       `json:"id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Type        EventType       `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
	Attempts    int             `json:"attempts"`
}

// NewOutboxMessage converte um evento de domínio em mensagem de outbox.
func NewOutboxMessage(e Event) (OutboxMessage, error) {
	payload, err := e.MarshalPayload()
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("falha ao serializar evento %s: %w", e.Type, err)
	}
	return OutboxMessage{
		ID:         e.ID,
		OccurredAt: e.OccurredAt,
		Type:       e.Type,
		Payload:    payload,
	}, nil
}
