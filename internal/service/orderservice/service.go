package orderservice

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/observability"
)

// Service implementa os casos de uso de edição do pedido (Draft) e suas transições simples.
type Service struct {
	uow    domain.UnitOfWork
	logger logger.Logger
	tracer trace.Tracer
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(uow domain.UnitOfWork, logger logger.Logger) *Service {
	return &Service{
		uow:    uow,
		logger: logger,
		tracer: observability.Tracer("goinventory/orderservice"),
	}
}

// CreateOrder cria um pedido vazio em Draft para o cliente.
func (s *Service) CreateOrder(ctx context.Context, customerID int) (order *domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "order.CreateOrder", trace.WithAttributes(attribute.Int("customer.id", customerID)))
	defer func() { observability.EndSpan(span, err) }()

	s.logger.Debug("Iniciando criação de pedido no serviço.", map[string]interface{}{"customer_id": customerID})

	if customerID <= 0 {
		err = apperror.NewValidationError("O ID do cliente deve ser positivo.")
		s.logger.Warn("ID de cliente inválido fornecido.", map[string]interface{}{"customer_id": customerID})
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		id, err := repos.Orders().NextID(ctx)
		if err != nil {
			return err
		}
		o, err := domain.NewOrder(id, customerID)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		s.logger.Error("Falha ao criar pedido.", err)
		return nil, err
	}

	s.logger.Info("Pedido criado com sucesso.", map[string]interface{}{"id": order.ID(), "customer_id": customerID})
	return order, nil
}

// GetOrder busca um pedido pelo ID.
func (s *Service) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	s.logger.Debug("Iniciando busca de pedido por ID no serviço.", map[string]interface{}{"id": id})

	if id <= 0 {
		return nil, apperror.NewValidationError("O ID do pedido deve ser positivo.")
	}

	var order *domain.Order
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		o, found, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %d não encontrado.", id))
		}
		order = o
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao buscar pedido.", err, map[string]interface{}{"id": id})
		return nil, err
	}
	return order, nil
}

// AddLine adiciona (ou soma) uma linha a um pedido em Draft.
func (s *Service) AddLine(ctx context.Context, orderID int, skuText string, quantity int) (*domain.Order, error) {
	sku, qty, err := parseLine(skuText, quantity)
	if err != nil {
		s.logger.Warn("Linha de pedido inválida.", map[string]interface{}{"order_id": orderID, "sku": skuText, "error": err.Error()})
		return nil, err
	}
	return s.mutate(ctx, "order.AddLine", orderID, func(o *domain.Order) error {
		return o.AddLine(sku, qty)
	})
}

// ChangeQuantity ajusta a quantidade de uma linha; quantidade <= 0 remove a linha.
func (s *Service) ChangeQuantity(ctx context.Context, orderID int, skuText string, newQuantity int) (*domain.Order, error) {
	sku, err := domain.NewSku(skuText)
	if err != nil {
		s.logger.Warn("SKU inválido fornecido.", map[string]interface{}{"order_id": orderID, "sku": skuText})
		return nil, err
	}
	return s.mutate(ctx, "order.ChangeQuantity", orderID, func(o *domain.Order) error {
		return o.ChangeQuantity(sku, newQuantity)
	})
}

// RemoveLine remove a linha do SKU de um pedido em Draft.
func (s *Service) RemoveLine(ctx context.Context, orderID int, skuText string) (*domain.Order, error) {
	sku, err := domain.NewSku(skuText)
	if err != nil {
		s.logger.Warn("SKU inválido fornecido.", map[string]interface{}{"order_id": orderID, "sku": skuText})
		return nil, err
	}
	return s.mutate(ctx, "order.RemoveLine", orderID, func(o *domain.Order) error {
		return o.RemoveLine(sku)
	})
}

// PlaceOrder envia o pedido; o OrderPlaced é gravado no outbox na mesma transação.
func (s *Service) PlaceOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	return s.mutate(ctx, "order.PlaceOrder", orderID, func(o *domain.Order) error {
		return o.Place()
	})
}

// CancelOrder cancela o pedido. Reservas existentes não são liberadas aqui.
func (s *Service) CancelOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	return s.mutate(ctx, "order.CancelOrder", orderID, func(o *domain.Order) error {
		return o.Cancel()
	})
}

// mutate carrega o pedido, aplica a alteração e grava tudo numa única transação.
func (s *Service) mutate(ctx context.Context, op string, orderID int, apply func(*domain.Order) error) (order *domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int("order.id", orderID)))
	defer func() { observability.EndSpan(span, err) }()

	fields := map[string]interface{}{"op": op, "order_id": orderID}
	s.logger.Debug("Iniciando alteração de pedido no serviço.", fields)

	if orderID <= 0 {
		err = apperror.NewValidationError("O ID do pedido deve ser positivo.")
		s.logFailure("Alteração de pedido rejeitada.", err, fields)
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		o, err := loadOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if err := apply(o); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao alterar pedido.", err, fields)
		return nil, err
	}

	order.ClearEvents()
	s.logger.Info("Pedido alterado com sucesso.", map[string]interface{}{"op": op, "order_id": orderID, "status": string(order.Status())})
	return order, nil
}

func loadOrder(ctx context.Context, repos domain.Repositories, id int) (*domain.Order, error) {
	o, found, err := repos.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Pedido com ID %d não encontrado.", id))
	}
	return o, nil
}

func parseLine(skuText string, quantity int) (domain.Sku, domain.Quantity, error) {
	sku, err := domain.NewSku(skuText)
	if err != nil {
		return domain.Sku{}, domain.Quantity{}, err
	}
	if quantity <= 0 {
		return domain.Sku{}, domain.Quantity{}, apperror.NewValidationError("A quantidade da linha deve ser maior que zero.")
	}
	qty, err := domain.NewQuantity(quantity)
	return sku, qty, err
}

func (s *Service) logFailure(msg string, err error, fields map[string]interface{}) {
	if apperror.IsDomainError(err) {
		withErr := map[string]interface{}{"error": err.Error()}
		for k, v := range fields {
			withErr[k] = v
		}
		s.logger.Warn(msg, withErr)
		return
	}
	s.logger.Error(msg, err)
}
