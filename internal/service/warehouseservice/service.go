package warehouseservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
	"goinventory/internal/pkg/cache"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/observability"
)

// Service implementa a gestão de armazéns e de entradas/liberações de estoque.
// As leituras usam cache-aside; toda escrita confirmada invalida a chave do armazém.
type Service struct {
	uow      domain.UnitOfWork
	cache    cache.Client
	cacheTTL time.Duration
	logger   logger.Logger
	tracer   trace.Tracer
}

// NewService cria e retorna uma nova instância do Serviço de Armazéns.
func NewService(uow domain.UnitOfWork, cacheClient cache.Client, cacheTTL time.Duration, logger logger.Logger) *Service {
	return &Service{
		uow:      uow,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logger:   logger,
		tracer:   observability.Tracer("goinventory/warehouseservice"),
	}
}

// CreateWarehouse cria um novo armazém sem estoque.
func (s *Service) CreateWarehouse(ctx context.Context, name string) (domain.WarehouseSnapshot, error) {
	s.logger.Debug("Iniciando criação de armazém no serviço.", map[string]interface{}{"name": name})

	if err := s.validateWarehouseName(name); err != nil {
		s.logger.Warn("Falha na validação do nome do armazém.", map[string]interface{}{"name": name, "error": err.Error()})
		return domain.WarehouseSnapshot{}, err
	}

	var created *domain.Warehouse
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		id, err := repos.Warehouses().NextID(ctx)
		if err != nil {
			return err
		}
		w, err := domain.NewWarehouse(id, name)
		if err != nil {
			return err
		}
		if err := repos.Warehouses().Save(ctx, w); err != nil {
			return err
		}
		created = w
		return nil
	})
	if err != nil {
		s.logger.Error("Falha ao criar armazém.", err)
		return domain.WarehouseSnapshot{}, err
	}

	s.logger.Info("Armazém criado com sucesso.", map[string]interface{}{"id": created.ID(), "name": created.Name()})
	return created.Snapshot(), nil
}

// GetWarehouse retorna a visão de estoque do armazém, consultando o cache antes do banco.
// A leitura no banco não bloqueia a linha. O Set no cache acontece depois do commit da leitura:
// uma escrita concorrente que invalide a chave nesse intervalo pode ter a invalidação sobrescrita
// pela versão antiga. Essa entrada dura no máximo cacheTTL; quem precisa do estado atual para
// gravar usa o caminho transacional (AddStock, reserva), que nunca lê do cache.
func (s *Service) GetWarehouse(ctx context.Context, id int) (domain.WarehouseSnapshot, error) {
	s.logger.Debug("Iniciando busca de armazém por ID no serviço.", map[string]interface{}{"id": id})

	if id <= 0 {
		return domain.WarehouseSnapshot{}, apperror.NewValidationError("O ID do armazém deve ser positivo.")
	}

	key := cache.WarehouseKey(id)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var snap domain.WarehouseSnapshot
		if err := json.Unmarshal([]byte(cached), &snap); err == nil {
			s.logger.Debug("Armazém servido pelo cache.", map[string]interface{}{"id": id})
			return snap, nil
		}
		s.logger.Warn("Entrada de cache inválida; consultando o banco.", map[string]interface{}{"key": key})
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Cache indisponível; consultando o banco.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	var snap domain.WarehouseSnapshot
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		w, found, err := repos.Warehouses().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewNotFoundError(fmt.Sprintf("Armazém com ID %d não encontrado.", id))
		}
		snap = w.Snapshot()
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao buscar armazém.", err, map[string]interface{}{"id": id})
		return domain.WarehouseSnapshot{}, err
	}

	if payload, err := json.Marshal(snap); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("Falha ao gravar armazém no cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	s.logger.Info("Armazém encontrado.", map[string]interface{}{"id": id, "stock_items": len(snap.Stock)})
	return snap, nil
}

// AddStock dá entrada de estoque de um SKU no armazém.
func (s *Service) AddStock(ctx context.Context, warehouseID int, skuText string, quantity int) (domain.WarehouseSnapshot, error) {
	sku, qty, err := parseStockInput(skuText, quantity)
	if err != nil {
		s.logger.Warn("Entrada de estoque inválida.", map[string]interface{}{"warehouse_id": warehouseID, "sku": skuText, "error": err.Error()})
		return domain.WarehouseSnapshot{}, err
	}
	return s.mutate(ctx, "warehouse.AddStock", warehouseID, func(w *domain.Warehouse) error {
		return w.AddStock(sku, qty)
	})
}

// ReleaseStock libera uma reserva (e.g., pedido cancelado depois de Reserved).
func (s *Service) ReleaseStock(ctx context.Context, warehouseID int, skuText string, quantity int) (domain.WarehouseSnapshot, error) {
	sku, qty, err := parseStockInput(skuText, quantity)
	if err != nil {
		s.logger.Warn("Liberação de estoque inválida.", map[string]interface{}{"warehouse_id": warehouseID, "sku": skuText, "error": err.Error()})
		return domain.WarehouseSnapshot{}, err
	}
	return s.mutate(ctx, "warehouse.ReleaseStock", warehouseID, func(w *domain.Warehouse) error {
		return w.UnreserveStock(sku, qty)
	})
}

func (s *Service) mutate(ctx context.Context, op string, warehouseID int, apply func(*domain.Warehouse) error) (snap domain.WarehouseSnapshot, err error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int("warehouse.id", warehouseID)))
	defer func() { observability.EndSpan(span, err) }()

	fields := map[string]interface{}{"op": op, "warehouse_id": warehouseID}
	s.logger.Debug("Iniciando alteração de estoque no serviço.", fields)

	if warehouseID <= 0 {
		err = apperror.NewValidationError("O ID do armazém deve ser positivo.")
		return domain.WarehouseSnapshot{}, err
	}

	var warehouse *domain.Warehouse
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		w, found, err := repos.Warehouses().GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewNotFoundError(fmt.Sprintf("Armazém com ID %d não encontrado.", warehouseID))
		}
		if err := apply(w); err != nil {
			return err
		}
		if err := repos.Warehouses().Save(ctx, w); err != nil {
			return err
		}
		warehouse = w
		return nil
	})
	if err != nil {
		s.logFailure("Falha ao alterar estoque.", err, fields)
		return domain.WarehouseSnapshot{}, err
	}

	warehouse.ClearEvents()
	if err := s.cache.Delete(ctx, cache.WarehouseKey(warehouseID)); err != nil {
		s.logger.Warn("Falha ao invalidar cache do armazém.", map[string]interface{}{"warehouse_id": warehouseID, "error": err.Error()})
	}

	s.logger.Info("Estoque alterado com sucesso.", fields)
	return warehouse.Snapshot(), nil
}

// validateWarehouseName é uma função auxiliar para validar o nome do armazém.
func (s *Service) validateWarehouseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.NewValidationError("O nome do armazém não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome do armazém deve ter entre 3 e 100 caracteres.")
	}
	return nil
}

func parseStockInput(skuText string, quantity int) (domain.Sku, domain.Quantity, error) {
	sku, err := domain.NewSku(skuText)
	if err != nil {
		return domain.Sku{}, domain.Quantity{}, err
	}
	if quantity <= 0 {
		return domain.Sku{}, domain.Quantity{}, apperror.NewValidationError("A quantidade deve ser maior que zero.")
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
