// Package app monta as camadas do GoDash (armazenamento, repositórios, serviços e HTTP)
// a partir da configuração. Usado pelo servidor e pela CLI administrativa.
package app

import (
	"context"
	"fmt"
	"net/http"

	"godash/config"
	"godash/internal/api/backup"
	"godash/internal/api/dashboard"
	"godash/internal/api/health"
	"godash/internal/api/order"
	"godash/internal/api/product"
	"godash/internal/api/router"
	"godash/internal/api/stock"
	"godash/internal/domain"
	"godash/internal/pkg/cache"
	"godash/internal/pkg/database"
	"godash/internal/pkg/latency"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/middleware"
	"godash/internal/pkg/storage"
	"godash/internal/repository/orderrepo"
	"godash/internal/repository/productrepo"
	"godash/internal/service/backupservice"
	"godash/internal/service/dashboardservice"
	"godash/internal/service/orderservice"
	"godash/internal/service/productservice"
	"godash/internal/service/seedservice"
	"godash/internal/service/stockservice"
)

// App guarda as dependências já montadas.
type App struct {
	Config *config.Config
	Logger logger.Logger

	Store    *storage.Adapter
	Products *productrepo.ProductRepository
	Orders   *orderrepo.OrderRepository
	Counter  middleware.Counter

	ProductService   *productservice.Service
	StockService     *stockservice.Service
	OrderService     *orderservice.Service
	DashboardService *dashboardservice.Service
	SeedService      *seedservice.Service
	BackupService    *backupservice.Service

	closers []func() error
}

// New conecta o backend escolhido em STORE_DRIVER e monta os serviços.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: log}

	// 1. Conexão com o armazenamento
	backend, err := a.openBackend()
	if err != nil {
		a.Close()
		return nil, err
	}
	return a.assemble(backend)
}

// NewWithBackend monta o App sobre um backend já aberto (testes e ferramentas).
func NewWithBackend(cfg *config.Config, log logger.Logger, backend storage.Backend) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: log, Counter: middleware.NewMemoryCounter()}
	return a.assemble(backend)
}

func (a *App) openBackend() (storage.Backend, error) {
	cfg, log := a.Config, a.Logger

	switch cfg.StoreDriver {
	case config.DriverFile:
		backend, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("app: backend de arquivos: %w", err)
		}
		a.Counter = middleware.NewMemoryCounter()
		log.Info("Armazenamento em arquivos inicializado.", map[string]interface{}{"dir": cfg.DataDir})
		return backend, nil

	case config.DriverRedis:
		rdb, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		a.Counter = cache.NewRedisCounter(rdb, cfg.RedisPrefix+cache.CounterPrefix)
		log.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
		return cache.NewRedisStore(rdb, cfg.RedisPrefix, cfg.CacheTimeout), nil

	case config.DriverPostgres:
		db, err := database.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("app: migrações: %w", err)
		}
		a.Counter = middleware.NewMemoryCounter()
		log.Info("Conexão PostgreSQL estabelecida.", nil)
		return database.NewKVStore(db, cfg.DBTimeout), nil

	default:
		a.Counter = middleware.NewMemoryCounter()
		log.Info("Armazenamento em memória inicializado; os dados somem ao encerrar.", nil)
		return storage.NewMemoryBackend(), nil
	}
}

// assemble faz a injeção de dependências. Ordem: Repository -> Service.
func (a *App) assemble(backend storage.Backend) (*App, error) {
	cfg, log := a.Config, a.Logger

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sim := latency.New(cfg.LatencyEnabled)

	a.Store = storage.NewAdapter(backend, log)
	a.Products = productrepo.NewProductRepository(a.Store, log)
	a.Products.Strict, a.Products.Location = cfg.StoreStrict, loc
	a.Orders = orderrepo.NewOrderRepository(a.Store, log)
	a.Orders.Strict, a.Orders.Location = cfg.StoreStrict, loc
	log.Debug("Repositórios inicializados.", nil)

	a.ProductService = productservice.NewService(a.Products, domain.NewValidation(), sim, log)
	a.StockService = stockservice.NewService(a.Products, sim, log)
	a.OrderService = orderservice.NewService(a.Orders, sim, log)
	a.DashboardService = dashboardservice.NewService(a.Products, a.Orders, sim, log, loc)
	a.SeedService = seedservice.NewService(a.Products, a.Orders, log)
	a.BackupService = backupservice.NewService(a.Products, a.Orders, a.Store, sim, log)
	log.Debug("Serviços inicializados.", map[string]interface{}{"latency": cfg.LatencyEnabled, "timezone": loc.String()})

	return a, nil
}

// Seed grava os dados de demonstração quando SEED_ON_START está ligado.
func (a *App) Seed(ctx context.Context) error {
	if !a.Config.SeedOnStart {
		return nil
	}
	_, err := a.SeedService.InitializeSampleData(ctx)
	return err
}

// Handler monta o roteador HTTP com todos os Handlers.
func (a *App) Handler() http.Handler {
	log := a.Logger
	h := router.Handlers{
		Product:   product.NewHandler(a.ProductService, log),
		Stock:     stock.NewHandler(a.StockService, log),
		Order:     order.NewHandler(a.OrderService, log),
		Dashboard: dashboard.NewHandler(a.DashboardService, log),
		Backup:    backup.NewHandler(a.BackupService, log),
		Health: health.NewHandler(a.Store, map[string]health.FaultReporter{
			"products": a.Products,
			"orders":   a.Orders,
		}, log),
	}

	opts := router.Options{
		Logger:      log,
		RateLimit:   a.Config.RateLimitMaxRequests,
		RateWindow:  a.Config.RateLimitPeriod,
		CORSOrigins: a.Config.CORSOrigins,
	}
	if a.Config.RateLimitMaxRequests > 0 {
		opts.Counter = a.Counter
	}
	return router.NewRouter(h, opts)
}

// Close libera as conexões abertas por New, na ordem inversa.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
