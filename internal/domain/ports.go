package domain

import "context"

// OrderRepository persiste pedidos dentro da transação corrente.
// GetByID bloqueia o agregado até o fim da transação; FindByID é leitura sem bloqueio,
// para consultas que não gravam.
type OrderRepository interface {
	GetByID(ctx context.Context, id int) (*Order, bool, error)
	FindByID(ctx context.Context, id int) (*Order, bool, error)
	Save(ctx context.Context, order *Order) error
	NextID(ctx context.Context) (int, error)
}

// WarehouseRepository persiste armazéns e seus itens de estoque.
// Mesma distinção GetByID/FindByID de OrderRepository.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id int) (*Warehouse, bool, error)
	FindByID(ctx context.Context, id int) (*Warehouse, bool, error)
	Save(ctx context.Context, warehouse *Warehouse) error
	NextID(ctx context.Context) (int, error)
}

// ShipmentRepository persiste remessas. Save só aceita remessas novas.
type ShipmentRepository interface {
	GetByID(ctx context.Context, id int) (*Shipment, bool, error)
	Save(ctx context.Context, shipment *Shipment) error
	NextID(ctx context.Context) (int, error)
}

// Repositories agrupa os repositórios ligados a uma única transação.
// Cada Save também grava no outbox os eventos pendentes do agregado.
type Repositories interface {
	Orders() OrderRepository
	Warehouses() WarehouseRepository
	Shipments() ShipmentRepository
}

// UnitOfWork abre um escopo transacional. Se fn retornar erro, nada é gravado.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
