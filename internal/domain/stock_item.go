package domain

import (
	"fmt"

	apperror "goinventory/internal/errors"
)

// StockItem guarda os contadores de um SKU dentro de um armazém.
// Invariante: reserved <= onHand.
type StockItem struct {
	sku      Sku
	onHand   Quantity
	reserved Quantity
}

func newStockItem(sku Sku) *StockItem {
	return &StockItem{sku: sku}
}

func (s *StockItem) Sku() Sku           { return s.sku }
func (s *StockItem) OnHand() Quantity   { return s.onHand }
func (s *StockItem) Reserved() Quantity { return s.reserved }

// Available é onHand - reserved.
func (s *StockItem) Available() Quantity {
	return Quantity{value: s.onHand.value - s.reserved.value}
}

// AddStock aumenta a quantidade física em estoque.
func (s *StockItem) AddStock(qty Quantity) error {
	if err := requirePositive(qty, "A quantidade adicionada"); err != nil {
		return err
	}
	s.onHand = s.onHand.Add(qty)
	return nil
}

// Reserve compromete qty da quantidade disponível.
func (s *StockItem) Reserve(qty Quantity) error {
	if err := s.checkReserve(qty); err != nil {
		return err
	}
	s.reserved = s.reserved.Add(qty)
	return nil
}

func (s *StockItem) checkReserve(qty Quantity) error {
	if err := requirePositive(qty, "A quantidade reservada"); err != nil {
		return err
	}
	if qty.GreaterThan(s.Available()) {
		return apperror.NewInsufficientStockError(s.sku.String(), qty.Int(), s.Available().Int())
	}
	return nil
}

// Unreserve libera qty de uma reserva existente.
func (s *StockItem) Unreserve(qty Quantity) error {
	if err := s.checkReserved(qty, "liberar"); err != nil {
		return err
	}
	s.reserved, _ = s.reserved.Subtract(qty)
	return nil
}

// ShipReserved baixa qty da reserva e do estoque físico.
func (s *StockItem) ShipReserved(qty Quantity) error {
	if err := s.checkReserved(qty, "expedir"); err != nil {
		return err
	}
	s.reserved, _ = s.reserved.Subtract(qty)
	s.onHand, _ = s.onHand.Subtract(qty)
	return nil
}

func (s *StockItem) checkReserved(qty Quantity, action string) error {
	if err := requirePositive(qty, "A quantidade"); err != nil {
		return err
	}
	if qty.GreaterThan(s.reserved) {
		return apperror.NewInvariantViolationError(fmt.Sprintf(
			"Não é possível %s %d unidades de %s: apenas %d reservadas.", action, qty.Int(), s.sku, s.reserved.Int()))
	}
	return nil
}

// StockItemSnapshot é a forma plana de um StockItem, usada pela persistência e pela API.
type StockItemSnapshot struct {
	Sku       string `json:"sku"`
	OnHand    int    `json:"on_hand"`
	Reserved  int    `json:"reserved"`
	Available int    `json:"available"`
}

// Snapshot retorna a forma plana do item.
func (s *StockItem) Snapshot() StockItemSnapshot {
	return StockItemSnapshot{
		Sku:       s.sku.String(),
		OnHand:    s.onHand.Int(),
		Reserved:  s.reserved.Int(),
		Available: s.Available().Int(),
	}
}

func restoreStockItem(snap StockItemSnapshot) (*StockItem, error) {
	sku, err := NewSku(snap.Sku)
	if err != nil {
		return nil, err
	}
	onHand, err := NewQuantity(snap.OnHand)
	if err != nil {
		return nil, err
	}
	reserved, err := NewQuantity(snap.Reserved)
	if err != nil {
		return nil, err
	}
	if reserved.GreaterThan(onHand) {
		return nil, apperror.NewInvariantViolationError(fmt.Sprintf(
			"Item %s persistido com reserva (%d) maior que o estoque (%d).", sku, reserved.Int(), onHand.Int()))
	}
	return &StockItem{sku: sku, onHand: onHand, reserved: reserved}, nil
}
