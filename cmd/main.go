package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"goinventory/config"
	"goinventory/internal/pkg/cache"
	"goinventory/internal/pkg/database"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/observability"

	// Camadas para Injeção de Dependências
	"goinventory/internal/api/fulfillment"
	"goinventory/internal/api/order"
	"goinventory/internal/api/router"
	"goinventory/internal/api/warehouse"
	"goinventory/internal/repository/outboxrepo"
	"goinventory/internal/repository/unitofwork"
	"goinventory/internal/service/fulfillmentservice"
	"goinventory/internal/service/orderservice"
	"goinventory/internal/service/warehouseservice"
	"goinventory/internal/worker"
)

// @title GoInventory API
// @version 1.0
// @description Pedidos, estoque por armazém e remessas.
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("⚡ Inicializando serviço GoInventory...")
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem .env seguimos com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	if z, ok := appLog.(*logger.ZapLogger); ok {
		defer z.Sync()
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Tracing
	shutdownTracing, err := observability.SetupTracing(rootCtx, observability.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		Endpoint:       cfg.OtelEndpoint,
		Insecure:       cfg.OtelInsecure,
	})
	if err != nil {
		appLog.Fatal("Falha ao configurar tracing.", err)
	}

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis). Indisponibilidade não impede a subida: leituras caem no banco.
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		appLog.Warn("Redis indisponível na inicialização; seguindo sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
	} else {
		appLog.Info("Conexão Redis estabelecida.", nil)
	}
	defer cacheClient.Close()

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	uow := unitofwork.NewPostgresUnitOfWork(db, cfg.DBTimeout, appLog)

	orderSvc := orderservice.NewService(uow, appLog)
	warehouseSvc := warehouseservice.NewService(uow, cacheClient, cfg.CacheTTL, appLog)
	fulfillmentSvc := fulfillmentservice.NewService(uow, cacheClient, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	handler := router.NewRouter(router.Handlers{
		Orders:      order.NewHandler(orderSvc, appLog),
		Warehouses:  warehouse.NewHandler(warehouseSvc, appLog),
		Fulfillment: fulfillment.NewHandler(fulfillmentSvc, appLog),
	}, router.RateLimit{
		Cache:  cacheClient,
		Limit:  cfg.RateLimitMaxRequests,
		Window: cfg.RateLimitPeriod,
	}, appLog)

	// 4. Outbox worker
	outbox := outboxrepo.NewOutboxRepository(db, cfg.DBTimeout, appLog)
	outboxWorker := worker.NewOutboxWorker(outbox, worker.NewLogDispatcher(appLog), worker.Config{
		Interval:    cfg.OutboxPollInterval,
		BatchSize:   cfg.OutboxBatchSize,
		MaxAttempts: cfg.OutboxMaxAttempts,
	}, appLog)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		outboxWorker.Start(rootCtx)
	}()

	// 5. Servidor HTTP
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("Servidor GoInventory ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	// 6. Graceful Shutdown
	<-rootCtx.Done()
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}
	<-workerDone
	if err := shutdownTracing(ctx); err != nil {
		appLog.Error("Falha ao encerrar tracing.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
