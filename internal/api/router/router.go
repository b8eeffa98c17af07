package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "goinventory/docs" // registra o documento OpenAPI
	"goinventory/internal/api/fulfillment"
	"goinventory/internal/api/order"
	"goinventory/internal/api/warehouse"
	"goinventory/internal/pkg/cache"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Orders      *order.Handler
	Warehouses  *warehouse.Handler
	Fulfillment *fulfillment.Handler
}

// RateLimit configura o limitador global. Limit <= 0 desliga o limitador.
type RateLimit struct {
	Cache  cache.Client
	Limit  int
	Window time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, rl RateLimit, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- 2. Armazéns ---
	mux.HandleFunc("POST /v1/warehouses", h.Warehouses.CreateWarehouseHandler)
	mux.HandleFunc("GET /v1/warehouses/{id}", h.Warehouses.GetWarehouseHandler)
	mux.HandleFunc("POST /v1/warehouses/{id}/stock", h.Warehouses.AddStockHandler)
	mux.HandleFunc("POST /v1/warehouses/{id}/stock/release", h.Warehouses.ReleaseStockHandler)

	// --- 3. Pedidos ---
	mux.HandleFunc("POST /v1/orders", h.Orders.CreateOrderHandler)
	mux.HandleFunc("GET /v1/orders/{id}", h.Orders.GetOrderHandler)
	mux.HandleFunc("POST /v1/orders/{id}/lines", h.Orders.AddLineHandler)
	mux.HandleFunc("PUT /v1/orders/{id}/lines/{sku}", h.Orders.ChangeQuantityHandler)
	mux.HandleFunc("DELETE /v1/orders/{id}/lines/{sku}", h.Orders.RemoveLineHandler)
	mux.HandleFunc("POST /v1/orders/{id}/place", h.Orders.PlaceOrderHandler)
	mux.HandleFunc("POST /v1/orders/{id}/cancel", h.Orders.CancelOrderHandler)

	// --- 4. Reserva e expedição ---
	mux.HandleFunc("POST /v1/orders/{id}/reserve", h.Fulfillment.ReserveStockHandler)
	mux.HandleFunc("POST /v1/orders/{id}/shipments", h.Fulfillment.CreateShipmentHandler)
	mux.HandleFunc("GET /v1/shipments/{id}", h.Fulfillment.GetShipmentHandler)

	// --- 5. Middlewares globais ---
	// O span HTTP cobre também as requisições barradas pelo limitador.
	var handler http.Handler = mux
	if rl.Limit > 0 && rl.Cache != nil {
		handler = middleware.RateLimiter(rl.Cache, rl.Limit, rl.Window, log)(handler)
	}
	return otelhttp.NewHandler(handler, "goinventory-http")
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
