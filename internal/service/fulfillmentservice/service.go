package fulfillmentservice

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/cache"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/observability"
)

// Service coordena os casos de uso que cruzam os agregados Order, Warehouse e Shipment.
// Cada chamada é uma única unidade de trabalho.
type Service struct {
	uow    domain.UnitOfWork
	cache  cache.Client
	logger logger.Logger
	tracer trace.Tracer
}

// NewService cria e retorna uma nova instância do Serviço de Atendimento de Pedidos.
func NewService(uow domain.UnitOfWork, cacheClient cache.Client, logger logger.Logger) *Service {
	return &Service{
		uow:    uow,
		cache:  cacheClient,
		logger: logger,
		tracer: observability.Tracer("goinventory/fulfillmentservice"),
	}
}

// ReserveStockForOrder reserva no armazém todas as linhas de um pedido em Placed
// e move o pedido para Reserved. Nada é gravado se qualquer linha falhar.
func (s *Service) ReserveStockForOrder(ctx context.Context, orderID, warehouseID int) (order *domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "fulfillment.ReserveStockForOrder", trace.WithAttributes(
		attribute.Int("order.id", orderID),
		attribute.Int("warehouse.id", warehouseID),
	))
	defer func() { observability.EndSpan(span, err) }()

	fields := map[string]interface{}{"order_id": orderID, "warehouse_id": warehouseID}
	s.logger.Debug("Iniciando reserva de estoque para pedido.", fields)

	if err := validateIDs(orderID, warehouseID); err != nil {
		s.logFailure("Reserva de estoque rejeitada.", err, fields)
		return nil, err
	}

	var warehouse *domain.Warehouse
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		o, w, err := loadOrderAndWarehouse(ctx, repos, orderID, warehouseID)
		if err != nil {
			return err
		}
		if o.Status() != domain.StatusPlaced {
			return apperror.NewInvariantViolationError(fmt.Sprintf(
				"O pedido %d precisa estar em Placed para reservar estoque (atual: %s).", o.ID(), o.Status()))
		}

		if err := w.ReserveLines(o.ID(), o.LineItems()); err != nil {
			return err
		}
		if err := o.MarkReserved(); err != nil {
			return err
		}

		if err := repos.Warehouses().Save(ctx, w); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		order, warehouse = o, w
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao reservar estoque para pedido.", err, fields)
		return nil, err
	}

	// Eventos já estão no outbox: só agora podem ser descartados.
	warehouse.ClearEvents()
	order.ClearEvents()
	s.invalidateWarehouse(ctx, warehouseID)

	s.logger.Info("Estoque reservado para pedido.", map[string]interface{}{
		"order_id":     orderID,
		"warehouse_id": warehouseID,
		"lines":        len(order.Lines()),
	})
	return order, nil
}

// CreateShipmentForOrder cria a remessa de um pedido em Reserved, baixa o estoque
// reservado e move o pedido para Shipped, tudo na mesma transação.
func (s *Service) CreateShipmentForOrder(ctx context.Context, orderID, warehouseID int, now time.Time) (shipment *domain.Shipment, err error) {
	ctx, span := s.tracer.Start(ctx, "fulfillment.CreateShipmentForOrder", trace.WithAttributes(
		attribute.Int("order.id", orderID),
		attribute.Int("warehouse.id", warehouseID),
	))
	defer func() { observability.EndSpan(span, err) }()

	fields := map[string]interface{}{"order_id": orderID, "warehouse_id": warehouseID}
	s.logger.Debug("Iniciando criação de remessa para pedido.", fields)

	if err := validateIDs(orderID, warehouseID); err != nil {
		s.logFailure("Criação de remessa rejeitada.", err, fields)
		return nil, err
	}

	var (
		order     *domain.Order
		warehouse *domain.Warehouse
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		o, w, err := loadOrderAndWarehouse(ctx, repos, orderID, warehouseID)
		if err != nil {
			return err
		}
		if o.Status() != domain.StatusReserved {
			return apperror.NewInvariantViolationError(fmt.Sprintf(
				"O pedido %d precisa estar em Reserved para ser expedido (atual: %s).", o.ID(), o.Status()))
		}

		shipmentID, err := repos.Shipments().NextID(ctx)
		if err != nil {
			return err
		}
		sh, err := domain.CreateShipmentFromOrder(shipmentID, o.ID(), w.ID(), o.LineItems(), now)
		if err != nil {
			return err
		}

		lines := make([]domain.LineItem, 0, len(sh.Lines()))
		for _, l := range sh.Lines() {
			lines = append(lines, domain.LineItem{Sku: l.Sku(), Quantity: l.Quantity()})
		}
		if err := w.ShipReservedLines(lines); err != nil {
			return err
		}
		if err := o.MarkShipped(); err != nil {
			return err
		}

		if err := repos.Shipments().Save(ctx, sh); err != nil {
			return err
		}
		if err := repos.Warehouses().Save(ctx, w); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		shipment, warehouse, order = sh, w, o
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao criar remessa para pedido.", err, fields)
		return nil, err
	}

	shipment.ClearEvents()
	warehouse.ClearEvents()
	order.ClearEvents()
	s.invalidateWarehouse(ctx, warehouseID)

	span.SetAttributes(attribute.Int("shipment.id", shipment.ID()))
	s.logger.Info("Remessa criada para pedido.", map[string]interface{}{
		"shipment_id":  shipment.ID(),
		"order_id":     orderID,
		"warehouse_id": warehouseID,
	})
	return shipment, nil
}

// GetShipment busca uma remessa pelo ID.
func (s *Service) GetShipment(ctx context.Context, id int) (*domain.Shipment, error) {
	s.logger.Debug("Iniciando busca de remessa por ID no serviço.", map[string]interface{}{"id": id})

	if id <= 0 {
		return nil, apperror.NewValidationError("O ID da remessa deve ser positivo.")
	}

	var shipment *domain.Shipment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		sh, found, err := repos.Shipments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewNotFoundError(fmt.Sprintf("Remessa com ID %d não encontrada.", id))
		}
		shipment = sh
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao buscar remessa.", err, map[string]interface{}{"id": id})
		return nil, err
	}
	return shipment, nil
}

func validateIDs(orderID, warehouseID int) error {
	if orderID <= 0 {
		return apperror.NewValidationError("O ID do pedido deve ser positivo.")
	}
	if warehouseID <= 0 {
		return apperror.NewValidationError("O ID do armazém deve ser positivo.")
	}
	return nil
}

func loadOrderAndWarehouse(ctx context.Context, repos domain.Repositories, orderID, warehouseID int) (*domain.Order, *domain.Warehouse, error) {
	o, found, err := repos.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %d não encontrado.", orderID))
	}
	w, found, err := repos.Warehouses().GetByID(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, apperror.NewNotFoundError(fmt.Sprintf("Armazém com ID %d não encontrado.", warehouseID))
	}
	return o, w, nil
}

// invalidateWarehouse remove a visão em cache. Falhas só são registradas: o TTL corrige.
func (s *Service) invalidateWarehouse(ctx context.Context, warehouseID int) {
	if err := s.cache.Delete(ctx, cache.WarehouseKey(warehouseID)); err != nil {
		s.logger.Warn("Falha ao invalidar cache do armazém.", map[string]interface{}{"warehouse_id": warehouseID, "error": err.Error()})
	}
}

// logFailure registra regras de negócio como Warn e falhas de infraestrutura como Error.
func (s *Service) logFailure(msg string, err error, fields map[string]interface{}) {
	if apperror.IsDomainError(err) {
		withErr := make(map[string]interface{}, len(fields)+1)
		for k, v := range fields {
			withErr[k] = v
		}
		withErr["error"] = err.Error()
		s.logger.Warn(msg, withErr)
		return
	}
	s.logger.Error(msg, err)
}
