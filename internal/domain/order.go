package domain

import (
	"fmt"

	apperror "goinventory/internal/errors"
)

// OrderStatus representa o estado do pedido na máquina de estados.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "Draft"
	StatusPlaced    OrderStatus = "Placed"
	StatusReserved  OrderStatus = "Reserved"
	StatusShipped   OrderStatus = "Shipped"
	StatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus converte o texto persistido no status correspondente.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusDraft, StatusPlaced, StatusReserved, StatusShipped, StatusCancelled:
		return st, nil
	}
	return "", apperror.NewValidationError(fmt.Sprintf("Status de pedido desconhecido: %q.", s))
}

// OrderLine é uma linha do pedido. A quantidade é sempre positiva.
type OrderLine struct {
	id       int
	sku      Sku
	quantity Quantity
}

func (l *OrderLine) ID() int            { return l.id }
func (l *OrderLine) Sku() Sku           { return l.sku }
func (l *OrderLine) Quantity() Quantity { return l.quantity }

// LineItem é um par (SKU, quantidade) usado para reservar, expedir e criar remessas.
type LineItem struct {
	Sku      Sku
	Quantity Quantity
}

// Order é a raiz de agregado do pedido.
type Order struct {
	EventLog

	id         int
	customerID int
	status     OrderStatus
	lines      []*OrderLine
	nextLineID int
	version    int
}

// NewOrder cria um pedido em Draft.
func NewOrder(id, customerID int) (*Order, error) {
	if id <= 0 {
		return nil, apperror.NewValidationError("O ID do pedido deve ser positivo.")
	}
	if customerID <= 0 {
		return nil, apperror.NewValidationError("O ID do cliente deve ser positivo.")
	}
	return &Order{id: id, customerID: customerID, status: StatusDraft, nextLineID: 1}, nil
}

func (o *Order) ID() int             { return o.id }
func (o *Order) CustomerID() int     { return o.customerID }
func (o *Order) Status() OrderStatus { return o.status }
func (o *Order) Version() int        { return o.version }

// MarkPersisted registra a versão gravada pelo repositório.
func (o *Order) MarkPersisted(version int) { o.version = version }

// Lines retorna as linhas na ordem de inserção.
func (o *Order) Lines() []*OrderLine {
	out := make([]*OrderLine, len(o.lines))
	copy(out, o.lines)
	return out
}

// LineItems retorna as linhas como pares (SKU, quantidade).
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, 0, len(o.lines))
	for _, l := range o.lines {
		items = append(items, LineItem{Sku: l.sku, Quantity: l.quantity})
	}
	return items
}

// AddLine adiciona uma linha, somando à linha existente do mesmo SKU.
func (o *Order) AddLine(sku Sku, qty Quantity) error {
	if err := o.requireDraft("alterar linhas"); err != nil {
		return err
	}
	if err := requirePositive(qty, "A quantidade da linha"); err != nil {
		return err
	}
	if l := o.findLine(sku); l != nil {
		l.quantity = l.quantity.Add(qty)
		return nil
	}
	o.lines = append(o.lines, &OrderLine{id: o.nextLineID, sku: sku, quantity: qty})
	o.nextLineID++
	return nil
}

// RemoveLine remove a linha do SKU. Não faz nada se ela não existir.
func (o *Order) RemoveLine(sku Sku) error {
	if err := o.requireDraft("alterar linhas"); err != nil {
		return err
	}
	for i, l := range o.lines {
		if l.sku == sku {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// ChangeQuantity ajusta a quantidade da linha do SKU; newQty <= 0 remove a linha.
func (o *Order) ChangeQuantity(sku Sku, newQty int) error {
	if err := o.requireDraft("alterar linhas"); err != nil {
		return err
	}
	l := o.findLine(sku)
	if l == nil {
		return apperror.NewNotFoundError(fmt.Sprintf("Linha com SKU %s não existe no pedido %d.", sku, o.id))
	}
	if newQty <= 0 {
		return o.RemoveLine(sku)
	}
	l.quantity = Quantity{value: newQty}
	return nil
}

// Place envia o pedido e emite OrderPlaced.
func (o *Order) Place() error {
	if err := o.requireDraft("enviar o pedido"); err != nil {
		return err
	}
	if len(o.lines) == 0 {
		return apperror.NewInvariantViolationError(fmt.Sprintf("O pedido %d não possui linhas.", o.id))
	}
	o.status = StatusPlaced
	o.raise(OrderPlaced{OrderID: o.id, CustomerID: o.customerID})
	return nil
}

// MarkReserved registra que todo o estoque do pedido foi reservado.
func (o *Order) MarkReserved() error {
	if o.status != StatusPlaced {
		return o.illegalTransition(StatusReserved)
	}
	o.status = StatusReserved
	return nil
}

// MarkShipped registra que o pedido foi expedido.
func (o *Order) MarkShipped() error {
	if o.status != StatusReserved {
		return o.illegalTransition(StatusShipped)
	}
	o.status = StatusShipped
	return nil
}

// Cancel cancela o pedido a partir de qualquer estado exceto Shipped.
func (o *Order) Cancel() error {
	if o.status == StatusShipped {
		return o.illegalTransition(StatusCancelled)
	}
	o.status = StatusCancelled
	return nil
}

func (o *Order) findLine(sku Sku) *OrderLine {
	for _, l := range o.lines {
		if l.sku == sku {
			return l
		}
	}
	return nil
}

func (o *Order) requireDraft(action string) error {
	if o.status != StatusDraft {
		return apperror.NewInvariantViolationError(fmt.Sprintf(
			"Não é possível %s: pedido %d está em %s.", action, o.id, o.status))
	}
	return nil
}

func (o *Order) illegalTransition(to OrderStatus) error {
	return apperror.NewInvariantViolationError(fmt.Sprintf(
		"Transição inválida do pedido %d: %s -> %s.", o.id, o.status, to))
}

// OrderLineSnapshot é a forma plana de uma linha do pedido.
type OrderLineSnapshot struct {
	ID       int    `json:"id"`
	Sku      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// OrderSnapshot é a forma plana do pedido.
type OrderSnapshot struct {
	ID         int                 `json:"id"`
	CustomerID int                 `json:"customer_id"`
	Status     OrderStatus         `json:"status"`
	NextLineID int                 `json:"-"`
	Version    int                 `json:"version"`
	Lines      []OrderLineSnapshot `json:"lines"`
}

// Snapshot retorna a forma plana do pedido.
func (o *Order) Snapshot() OrderSnapshot {
	snap := OrderSnapshot{
		ID:         o.id,
		CustomerID: o.customerID,
		Status:     o.status,
		NextLineID: o.nextLineID,
		Version:    o.version,
		Lines:      make([]OrderLineSnapshot, 0, len(o.lines)),
	}
	for _, l := range o.lines {
		snap.Lines = append(snap.Lines, OrderLineSnapshot{ID: l.id, Sku: l.sku.String(), Quantity: l.quantity.Int()})
	}
	return snap
}

// RestoreOrder reconstrói o pedido a partir de um snapshot persistido.
func RestoreOrder(snap OrderSnapshot) (*Order, error) {
	o, err := NewOrder(snap.ID, snap.CustomerID)
	if err != nil {
		return nil, err
	}
	status, err := ParseOrderStatus(string(snap.Status))
	if err != nil {
		return nil, err
	}
	o.status = status
	maxID := 0
	for _, ls := range snap.Lines {
		sku, err := NewSku(ls.Sku)
		if err != nil {
			return nil, err
		}
		qty, err := NewQuantity(ls.Quantity)
		if err != nil {
			return nil, err
		}
		if err := requirePositive(qty, "A quantidade da linha"); err != nil {
			return nil, err
		}
		o.lines = append(o.lines, &OrderLine{id: ls.ID, sku: sku, quantity: qty})
		if ls.ID > maxID {
			maxID = ls.ID
		}
	}
	o.nextLineID = snap.NextLineID
	if o.nextLineID <= maxID {
		o.nextLineID = maxID + 1
	}
	o.version = snap.Version
	return o, nil
}
