package order

import (
	"context"
	"net/http"

	"goinventory/internal/api/response"
	"goinventory/internal/domain"
	"goinventory/internal/pkg/logger"
)

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	CreateOrder(ctx context.Context, customerID int) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	AddLine(ctx context.Context, orderID int, sku string, quantity int) (*domain.Order, error)
	ChangeQuantity(ctx context.Context, orderID int, sku string, newQuantity int) (*domain.Order, error)
	RemoveLine(ctx context.Context, orderID int, sku string) (*domain.Order, error)
	PlaceOrder(ctx context.Context, orderID int) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int) (*domain.Order, error)
}

// CreateOrderRequest é o corpo de POST /v1/orders.
type CreateOrderRequest struct {
	CustomerID int `json:"customer_id" example:"42"`
}

// AddLineRequest é o corpo de POST /v1/orders/{id}/lines.
type AddLineRequest struct {
	Sku      string `json:"sku" example:"ABC-123"`
	Quantity int    `json:"quantity" example:"2"`
}

// ChangeQuantityRequest é o corpo de PUT /v1/orders/{id}/lines/{sku}.
type ChangeQuantityRequest struct {
	Quantity int `json:"quantity" example:"5"`
}

// Handler agrupa os handlers de pedidos.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateOrderHandler lida com a requisição POST /v1/orders.
// @Summary Cria um pedido em rascunho
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Cliente do pedido"
// @Success 201 {object} domain.OrderSnapshot "Pedido criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /orders [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), req.CustomerID)
	h.writeOrder(w, r, order, err, http.StatusCreated)
}

// GetOrderHandler lida com a requisição GET /v1/orders/{id}.
// @Summary Obtém um pedido por ID
// @Tags orders
// @Produce json
// @Param id path int true "ID do Pedido"
// @Success 200 {object} domain.OrderSnapshot "Pedido encontrado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	h.withOrderID(w, r, h.Service.GetOrder)
}

// AddLineHandler lida com a requisição POST /v1/orders/{id}/lines.
// @Summary Adiciona uma linha ao pedido
// @Description Linhas com o mesmo SKU são somadas. Só é permitido em Draft.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "ID do Pedido"
// @Param line body AddLineRequest true "SKU e quantidade"
// @Success 200 {object} domain.OrderSnapshot "Pedido atualizado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Pedido fora de Draft"
// @Router /orders/{id}/lines [post]
func (h *Handler) AddLineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var req AddLineRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Service.AddLine(r.Context(), id, req.Sku, req.Quantity)
	h.writeOrder(w, r, order, err, http.StatusOK)
}

// ChangeQuantityHandler lida com a requisição PUT /v1/orders/{id}/lines/{sku}.
// @Summary Altera a quantidade de uma linha
// @Description Quantidade menor ou igual a zero remove a linha.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "ID do Pedido"
// @Param sku path string true "SKU da linha"
// @Param line body ChangeQuantityRequest true "Nova quantidade"
// @Success 200 {object} domain.OrderSnapshot "Pedido atualizado"
// @Failure 404 {object} domain.ErrorResponse "Pedido ou linha não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Pedido fora de Draft"
// @Router /orders/{id}/lines/{sku} [put]
func (h *Handler) ChangeQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	var req ChangeQuantityRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Service.ChangeQuantity(r.Context(), id, r.PathValue("sku"), req.Quantity)
	h.writeOrder(w, r, order, err, http.StatusOK)
}

// RemoveLineHandler lida com a requisição DELETE /v1/orders/{id}/lines/{sku}.
// @Summary Remove uma linha do pedido
// @Tags orders
// @Produce json
// @Param id path int true "ID do Pedido"
// @Param sku path string true "SKU da linha"
// @Success 200 {object} domain.OrderSnapshot "Pedido atualizado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Pedido fora de Draft"
// @Router /orders/{id}/lines/{sku} [delete]
func (h *Handler) RemoveLineHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := h.Service.RemoveLine(r.Context(), id, r.PathValue("sku"))
	h.writeOrder(w, r, order, err, http.StatusOK)
}

// PlaceOrderHandler lida com a requisição POST /v1/orders/{id}/place.
// @Summary Confirma o pedido
// @Tags orders
// @Produce json
// @Param id path int true "ID do Pedido"
// @Success 200 {object} domain.OrderSnapshot "Pedido confirmado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Pedido vazio ou fora de Draft"
// @Router /orders/{id}/place [post]
func (h *Handler) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	h.withOrderID(w, r, h.Service.PlaceOrder)
}

// CancelOrderHandler lida com a requisição POST /v1/orders/{id}/cancel.
// @Summary Cancela o pedido
// @Description Idempotente; falha apenas para pedidos já enviados.
// @Tags orders
// @Produce json
// @Param id path int true "ID do Pedido"
// @Success 200 {object} domain.OrderSnapshot "Pedido cancelado"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Pedido já enviado"
// @Router /orders/{id}/cancel [post]
func (h *Handler) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	h.withOrderID(w, r, h.Service.CancelOrder)
}

func (h *Handler) withOrderID(w http.ResponseWriter, r *http.Request, apply func(context.Context, int) (*domain.Order, error)) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	order, err := apply(r.Context(), id)
	h.writeOrder(w, r, order, err, http.StatusOK)
}

func (h *Handler) writeOrder(w http.ResponseWriter, r *http.Request, order *domain.Order, err error, status int) {
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, status)
		return
	}
	response.Write(w, r, h.Logger, order.Snapshot(), nil, status)
}
