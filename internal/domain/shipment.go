package domain

import (
	"time"

	apperror "goinventory/internal/errors"
)

// ShipmentLine é uma linha imutável da remessa.
type ShipmentLine struct {
	id       int
	sku      Sku
	quantity Quantity
}

func (l ShipmentLine) ID() int            { return l.id }
func (l ShipmentLine) Sku() Sku           { return l.sku }
func (l ShipmentLine) Quantity() Quantity { return l.quantity }

// Shipment registra o que saiu de um armazém para um pedido. Não muda após a criação.
type Shipment struct {
	EventLog

	id          int
	orderID     int
	warehouseID int
	createdAt   time.Time
	lines       []ShipmentLine
	persisted   bool
}

// CreateShipmentFromOrder é o único caminho de construção de uma remessa.
// Linhas com o mesmo SKU são somadas; o id deve ter sido alocado pelo repositório.
func CreateShipmentFromOrder(id, orderID, warehouseID int, lines []LineItem, createdAt time.Time) (*Shipment, error) {
	if id <= 0 {
		return nil, apperror.NewValidationError("O ID da remessa deve ser positivo.")
	}
	if orderID <= 0 {
		return nil, apperror.NewValidationError("O ID do pedido deve ser positivo.")
	}
	if warehouseID <= 0 {
		return nil, apperror.NewValidationError("O ID do armazém deve ser positivo.")
	}

	s := &Shipment{id: id, orderID: orderID, warehouseID: warehouseID, createdAt: createdAt.UTC()}
	index := make(map[Sku]int, len(lines))
	for _, line := range lines {
		if err := requirePositive(line.Quantity, "A quantidade da linha"); err != nil {
			return nil, err
		}
		if i, ok := index[line.Sku]; ok {
			s.lines[i].quantity = s.lines[i].quantity.Add(line.Quantity)
			continue
		}
		index[line.Sku] = len(s.lines)
		s.lines = append(s.lines, ShipmentLine{id: len(s.lines) + 1, sku: line.Sku, quantity: line.Quantity})
	}
	if len(s.lines) == 0 {
		return nil, apperror.NewInvariantViolationError("Uma remessa precisa de pelo menos uma linha.")
	}

	s.raise(ShipmentCreated{ShipmentID: id, OrderID: orderID, WarehouseID: warehouseID})
	return s, nil
}

func (s *Shipment) ID() int              { return s.id }
func (s *Shipment) OrderID() int         { return s.orderID }
func (s *Shipment) WarehouseID() int     { return s.warehouseID }
func (s *Shipment) CreatedAt() time.Time { return s.createdAt }

// Persisted informa se a remessa já foi gravada. Remessas são gravadas uma única vez.
func (s *Shipment) Persisted() bool { return s.persisted }

// MarkPersisted é chamado pelo repositório após o INSERT.
func (s *Shipment) MarkPersisted() { s.persisted = true }

// Lines retorna uma cópia das linhas.
func (s *Shipment) Lines() []ShipmentLine {
	out := make([]ShipmentLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// ShipmentLineSnapshot é a forma plana de uma linha da remessa.
type ShipmentLineSnapshot struct {
	ID       int    `json:"id"`
	Sku      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ShipmentSnapshot é a forma plana da remessa.
type ShipmentSnapshot struct {
	ID          int                    `json:"id"`
	OrderID     int                    `json:"order_id"`
	WarehouseID int                    `json:"warehouse_id"`
	CreatedAt   time.Time              `json:"created_at"`
	Lines       []ShipmentLineSnapshot `json:"lines"`
}

// Snapshot retorna a forma plana da remessa.
func (s *Shipment) Snapshot() ShipmentSnapshot {
	snap := ShipmentSnapshot{
		ID:          s.id,
		OrderID:     s.orderID,
		WarehouseID: s.warehouseID,
		CreatedAt:   s.createdAt,
		Lines:       make([]ShipmentLineSnapshot, 0, len(s.lines)),
	}
	for _, l := range s.lines {
		snap.Lines = append(snap.Lines, ShipmentLineSnapshot{ID: l.id, Sku: l.sku.String(), Quantity: l.quantity.Int()})
	}
	return snap
}

// RestoreShipment reconstrói uma remessa persistida. Não emite eventos.
func RestoreShipment(snap ShipmentSnapshot) (*Shipment, error) {
	if snap.ID <= 0 || snap.OrderID <= 0 || snap.WarehouseID <= 0 {
		return nil, apperror.NewValidationError("Remessa persistida com IDs inválidos.")
	}
	if len(snap.Lines) == 0 {
		return nil, apperror.NewInvariantViolationError("Remessa persistida sem linhas.")
	}
	s := &Shipment{
		id:          snap.ID,
		orderID:     snap.OrderID,
		warehouseID: snap.WarehouseID,
		createdAt:   snap.CreatedAt.UTC(),
		persisted:   true,
	}
	for _, ls := range snap.Lines {
		sku, err := NewSku(ls.Sku)
		if err != nil {
			return nil, err
		}
		qty, err := NewQuantity(ls.Quantity)
		if err != nil {
			return nil, err
		}
		s.lines = append(s.lines, ShipmentLine{id: ls.ID, sku: sku, quantity: qty})
	}
	return s, nil
}
