package domain

import (
	"fmt"
	"sort"
	"strings"

	apperror "goinventory/internal/errors"
)

// Warehouse é a raiz de agregado que possui os itens de estoque.
// Um StockItem só existe depois da primeira entrada de estoque do SKU.
type Warehouse struct {
	EventLog

	id      int
	name    string
	stock   map[Sku]*StockItem
	version int
}

// NewWarehouse cria um armazém vazio.
func NewWarehouse(id int, name string) (*Warehouse, error) {
	if id <= 0 {
		return nil, apperror.NewValidationError("O ID do armazém deve ser positivo.")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewValidationError("O nome do armazém não pode ser vazio.")
	}
	return &Warehouse{id: id, name: name, stock: make(map[Sku]*StockItem)}, nil
}

func (w *Warehouse) ID() int      { return w.id }
func (w *Warehouse) Name() string { return w.name }

// Version é o token de concorrência otimista; zero indica agregado ainda não persistido.
func (w *Warehouse) Version() int { return w.version }

// MarkPersisted registra a versão gravada pelo repositório.
func (w *Warehouse) MarkPersisted(version int) { w.version = version }

// StockItem retorna o item do SKU, se existir.
func (w *Warehouse) StockItem(sku Sku) (*StockItem, bool) {
	item, ok := w.stock[sku]
	return item, ok
}

// StockItems retorna os itens ordenados por SKU.
func (w *Warehouse) StockItems() []*StockItem {
	items := make([]*StockItem, 0, len(w.stock))
	for _, item := range w.stock {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].sku.value < items[j].sku.value })
	return items
}

// GetOrCreateStockItem retorna o item existente ou cria um item com estoque zero.
func (w *Warehouse) GetOrCreateStockItem(sku Sku) *StockItem {
	if item, ok := w.stock[sku]; ok {
		return item
	}
	item := newStockItem(sku)
	w.stock[sku] = item
	return item
}

// AddStock dá entrada de estoque, criando o item se necessário.
func (w *Warehouse) AddStock(sku Sku, qty Quantity) error {
	// Valida antes para não deixar um item vazio criado por uma entrada inválida.
	if err := requirePositive(qty, "A quantidade adicionada"); err != nil {
		return err
	}
	return w.GetOrCreateStockItem(sku).AddStock(qty)
}

// ReserveStock reserva qty do SKU para o pedido e emite StockReserved.
func (w *Warehouse) ReserveStock(orderID int, sku Sku, qty Quantity) error {
	if orderID <= 0 {
		return apperror.NewValidationError("O ID do pedido deve ser positivo.")
	}
	item, err := w.requireItem(sku)
	if err != nil {
		return err
	}
	if err := item.Reserve(qty); err != nil {
		return err
	}
	w.raise(StockReserved{
		OrderID:     orderID,
		WarehouseID: w.id,
		Sku:         sku.String(),
		Quantity:    qty.Int(),
	})
	return nil
}

// UnreserveStock libera uma reserva do SKU.
func (w *Warehouse) UnreserveStock(sku Sku, qty Quantity) error {
	item, err := w.requireItem(sku)
	if err != nil {
		return err
	}
	return item.Unreserve(qty)
}

// ShipReservedStock baixa estoque reservado. Não emite evento.
func (w *Warehouse) ShipReservedStock(sku Sku, qty Quantity) error {
	item, err := w.requireItem(sku)
	if err != nil {
		return err
	}
	return item.ShipReserved(qty)
}

// ReserveLines reserva todas as linhas do pedido ou nenhuma.
// O lote é validado na ordem das linhas (somando SKUs repetidos) antes de qualquer
// mutação; o erro devolvido é o da primeira linha que falharia.
func (w *Warehouse) ReserveLines(orderID int, lines []LineItem) error {
	if orderID <= 0 {
		return apperror.NewValidationError("O ID do pedido deve ser positivo.")
	}
	err := w.validateLines(lines, func(item *StockItem, total Quantity) error {
		return item.checkReserve(total)
	})
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := w.ReserveStock(orderID, line.Sku, line.Quantity); err != nil {
			// Inalcançável após a validação acima.
			return apperror.NewInternalError("Reserva falhou após validação do lote.", err)
		}
	}
	return nil
}

// ShipReservedLines expede todas as linhas ou nenhuma, com a mesma validação em ordem.
func (w *Warehouse) ShipReservedLines(lines []LineItem) error {
	err := w.validateLines(lines, func(item *StockItem, total Quantity) error {
		return item.checkReserved(total, "expedir")
	})
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := w.ShipReservedStock(line.Sku, line.Quantity); err != nil {
			return apperror.NewInternalError("Expedição falhou após validação do lote.", err)
		}
	}
	return nil
}

// validateLines percorre as linhas em ordem e aplica check ao total acumulado do SKU
// até aquela linha, sem alterar o armazém.
func (w *Warehouse) validateLines(lines []LineItem, check func(item *StockItem, total Quantity) error) error {
	running := make(map[Sku]Quantity, len(lines))
	for _, line := range lines {
		if err := requirePositive(line.Quantity, "A quantidade da linha"); err != nil {
			return err
		}
		item, err := w.requireItem(line.Sku)
		if err != nil {
			return err
		}
		total := running[line.Sku].Add(line.Quantity)
		if err := check(item, total); err != nil {
			return err
		}
		running[line.Sku] = total
	}
	return nil
}

func (w *Warehouse) requireItem(sku Sku) (*StockItem, error) {
	item, ok := w.stock[sku]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Sem estoque para o SKU %s no armazém %d.", sku, w.id))
	}
	return item, nil
}

// WarehouseSnapshot é a forma plana do armazém.
type WarehouseSnapshot struct {
	ID      int                 `json:"id"`
	Name    string              `json:"name"`
	Version int                 `json:"version"`
	Stock   []StockItemSnapshot `json:"stock"`
}

// Snapshot retorna a forma plana do armazém, com itens ordenados por SKU.
func (w *Warehouse) Snapshot() WarehouseSnapshot {
	items := w.StockItems()
	snap := WarehouseSnapshot{
		ID:      w.id,
		Name:    w.name,
		Version: w.version,
		Stock:   make([]StockItemSnapshot, 0, len(items)),
	}
	for _, item := range items {
		snap.Stock = append(snap.Stock, item.Snapshot())
	}
	return snap
}

// RestoreWarehouse reconstrói o agregado a partir de um snapshot persistido.
func RestoreWarehouse(snap WarehouseSnapshot) (*Warehouse, error) {
	w, err := NewWarehouse(snap.ID, snap.Name)
	if err != nil {
		return nil, err
	}
	for _, s := range snap.Stock {
		item, err := restoreStockItem(s)
		if err != nil {
			return nil, err
		}
		if _, dup := w.stock[item.sku]; dup {
			return nil, apperror.NewInvariantViolationError(fmt.Sprintf("SKU %s duplicado no armazém %d.", item.sku, w.id))
		}
		w.stock[item.sku] = item
	}
	w.version = snap.Version
	return w, nil
}
