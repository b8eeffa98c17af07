package fulfillment

import (
	"context"
	"net/http"
	"time"

	"goinventory/internal/api/response"
	"goinventory/internal/domain"
	"goinventory/internal/pkg/logger"
)

// FulfillmentService define os casos de uso de atendimento de pedidos.
type FulfillmentService interface {
	ReserveStockForOrder(ctx context.Context, orderID, warehouseID int) (*domain.Order, error)
	CreateShipmentForOrder(ctx context.Context, orderID, warehouseID int, now time.Time) (*domain.Shipment, error)
	GetShipment(ctx context.Context, id int) (*domain.Shipment, error)
}

// WarehouseRequest identifica o armazém que atende o pedido.
type WarehouseRequest struct {
	WarehouseID int `json:"warehouse_id" example:"1"`
}

// Handler agrupa os handlers de reserva e expedição.
type Handler struct {
	Service FulfillmentService
	Logger  logger.Logger
	Now     func() time.Time
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc FulfillmentService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log, Now: time.Now}
}

// ReserveStockHandler lida com a requisição POST /v1/orders/{id}/reserve.
// @Summary Reserva estoque para um pedido confirmado
// @Description Reserva todas as linhas no armazém informado e marca o pedido como Reserved.
// @Tags fulfillment
// @Accept json
// @Produce json
// @Param id path int true "ID do Pedido"
// @Param warehouse body WarehouseRequest true "Armazém de origem"
// @Success 200 {object} domain.OrderSnapshot "Pedido reservado"
// @Failure 404 {object} domain.ErrorResponse "Pedido, armazém ou SKU não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Estoque insuficiente ou conflito de concorrência"
// @Failure 422 {object} domain.ErrorResponse "Pedido fora de Placed"
// @Router /orders/{id}/reserve [post]
func (h *Handler) ReserveStockHandler(w http.ResponseWriter, r *http.Request) {
	orderID, warehouseID, ok := h.decodeTarget(w, r)
	if !ok {
		return
	}

	order, err := h.Service.ReserveStockForOrder(r.Context(), orderID, warehouseID)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	response.Write(w, r, h.Logger, order.Snapshot(), nil, http.StatusOK)
}

// CreateShipmentHandler lida com a requisição POST /v1/orders/{id}/shipments.
// @Summary Cria a remessa de um pedido reservado
// @Tags fulfillment
// @Accept json
// @Produce json
// @Param id path int true "ID do Pedido"
// @Param warehouse body WarehouseRequest true "Armazém de origem"
// @Success 201 {object} domain.ShipmentSnapshot "Remessa criada"
// @Failure 404 {object} domain.ErrorResponse "Pedido ou armazém não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Pedido fora de Reserved"
// @Router /orders/{id}/shipments [post]
func (h *Handler) CreateShipmentHandler(w http.ResponseWriter, r *http.Request) {
	orderID, warehouseID, ok := h.decodeTarget(w, r)
	if !ok {
		return
	}

	shipment, err := h.Service.CreateShipmentForOrder(r.Context(), orderID, warehouseID, h.Now())
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	response.Write(w, r, h.Logger, shipment.Snapshot(), nil, http.StatusCreated)
}

// GetShipmentHandler lida com a requisição GET /v1/shipments/{id}.
// @Summary Obtém uma remessa por ID
// @Tags fulfillment
// @Produce json
// @Param id path int true "ID da Remessa"
// @Success 200 {object} domain.ShipmentSnapshot "Remessa encontrada"
// @Failure 404 {object} domain.ErrorResponse "Remessa não encontrada"
// @Router /shipments/{id} [get]
func (h *Handler) GetShipmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	shipment, err := h.Service.GetShipment(r.Context(), id)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	response.Write(w, r, h.Logger, shipment.Snapshot(), nil, http.StatusOK)
}

func (h *Handler) decodeTarget(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	orderID, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return 0, 0, false
	}
	var req WarehouseRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return 0, 0, false
	}
	return orderID, req.WarehouseID, true
}
