package warehouse

import (
	"context"
	"net/http"

	"goinventory/internal/api/response"
	"goinventory/internal/domain"
	"goinventory/internal/pkg/logger"
)

// WarehouseService define o contrato que o Handler espera da camada de Serviço.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, name string) (domain.WarehouseSnapshot, error)
	GetWarehouse(ctx context.Context, id int) (domain.WarehouseSnapshot, error)
	AddStock(ctx context.Context, warehouseID int, sku string, quantity int) (domain.WarehouseSnapshot, error)
	ReleaseStock(ctx context.Context, warehouseID int, sku string, quantity int) (domain.WarehouseSnapshot, error)
}

// CreateWarehouseRequest é o corpo de POST /v1/warehouses.
type CreateWarehouseRequest struct {
	Name string `json:"name" example:"Centro de Distribuição SP"`
}

// StockRequest é o corpo das operações de estoque.
type StockRequest struct {
	Sku      string `json:"sku" example:"ABC-123"`
	Quantity int    `json:"quantity" example:"10"`
}

// Handler agrupa todos os métodos de Handler de armazéns.
type Handler struct {
	Service WarehouseService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc WarehouseService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateWarehouseHandler lida com a requisição POST /v1/warehouses.
// @Summary Cria um novo armazém
// @Description Cria um armazém sem estoque.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param warehouse body CreateWarehouseRequest true "Dados do armazém"
// @Success 201 {object} domain.WarehouseSnapshot "Armazém criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /warehouses [post]
func (h *Handler) CreateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateWarehouseRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	created, err := h.Service.CreateWarehouse(r.Context(), req.Name)
	response.Write(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetWarehouseHandler lida com a requisição GET /v1/warehouses/{id}.
// @Summary Obtém a visão de estoque de um armazém
// @Description Retorna o armazém com on-hand, reservado e disponível por SKU.
// @Tags warehouses
// @Produce json
// @Param id path int true "ID do Armazém"
// @Success 200 {object} domain.WarehouseSnapshot "Armazém encontrado"
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /warehouses/{id} [get]
func (h *Handler) GetWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	snap, err := h.Service.GetWarehouse(r.Context(), id)
	response.Write(w, r, h.Logger, snap, err, http.StatusOK)
}

// AddStockHandler lida com a requisição POST /v1/warehouses/{id}/stock.
// @Summary Dá entrada de estoque
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path int true "ID do Armazém"
// @Param stock body StockRequest true "SKU e quantidade"
// @Success 200 {object} domain.WarehouseSnapshot "Estoque atualizado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Conflito de concorrência"
// @Router /warehouses/{id}/stock [post]
func (h *Handler) AddStockHandler(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.Service.AddStock)
}

// ReleaseStockHandler lida com a requisição POST /v1/warehouses/{id}/stock/release.
// @Summary Libera estoque reservado
// @Description Desfaz uma reserva, e.g. depois do cancelamento de um pedido reservado.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path int true "ID do Armazém"
// @Param stock body StockRequest true "SKU e quantidade"
// @Success 200 {object} domain.WarehouseSnapshot "Reserva liberada"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém ou SKU não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Quantidade maior que a reservada"
// @Router /warehouses/{id}/stock/release [post]
func (h *Handler) ReleaseStockHandler(w http.ResponseWriter, r *http.Request) {
	h.changeStock(w, r, h.Service.ReleaseStock)
}

func (h *Handler) changeStock(w http.ResponseWriter, r *http.Request, apply func(context.Context, int, string, int) (domain.WarehouseSnapshot, error)) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var req StockRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	snap, err := apply(r.Context(), id, req.Sku, req.Quantity)
	response.Write(w, r, h.Logger, snap, err, http.StatusOK)
}
