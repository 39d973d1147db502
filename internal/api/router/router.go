package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "godash/docs" // registra a especificação OpenAPI
	"godash/internal/api/backup"
	"godash/internal/api/dashboard"
	"godash/internal/api/health"
	"godash/internal/api/order"
	"godash/internal/api/product"
	"godash/internal/api/response"
	"godash/internal/api/stock"
	apperror "godash/internal/errors"
	"godash/internal/pkg/logger"
	"godash/internal/pkg/middleware"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Product   *product.Handler
	Stock     *stock.Handler
	Order     *order.Handler
	Dashboard *dashboard.Handler
	Backup    *backup.Handler
	Health    *health.Handler
}

// Options configura os middlewares globais.
type Options struct {
	Logger logger.Logger

	// Counter nil desliga o rate limit.
	Counter     middleware.Counter
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	log := opts.Logger
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, log, apperror.NewNotFoundError("Rota não encontrada."))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, log, http.StatusMethodNotAllowed, map[string]interface{}{
			"success": false,
			"error":   "Método não permitido",
		})
	})

	// --- 1. Rotas de Health Check ---
	r.HandleFunc("/ping", health.PingHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health.HealthHandler).Methods(http.MethodGet)

	// --- 2. Documentação ---
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 3. Rotas da API (v1) ---
	v1 := r.PathPrefix("/v1").Subrouter()
	if opts.Counter != nil {
		v1.Use(middleware.RateLimiter(opts.Counter, opts.RateLimit, opts.RateWindow, log))
	}

	v1.HandleFunc("/products", h.Product.ListProductsHandler).Methods(http.MethodGet)
	v1.HandleFunc("/products", h.Product.CreateProductHandler).Methods(http.MethodPost)
	v1.HandleFunc("/products/{id}", h.Product.GetProductHandler).Methods(http.MethodGet)
	v1.HandleFunc("/products/{id}", h.Product.UpdateProductHandler).Methods(http.MethodPatch)
	v1.HandleFunc("/products/{id}", h.Product.DeleteProductHandler).Methods(http.MethodDelete)
	v1.HandleFunc("/products/{id}/stock", h.Stock.AdjustStockHandler).Methods(http.MethodPost)
	v1.HandleFunc("/categories", h.Product.ListCategoriesHandler).Methods(http.MethodGet)

	v1.HandleFunc("/orders", h.Order.ListOrdersHandler).Methods(http.MethodGet)
	v1.HandleFunc("/orders/{id}", h.Order.GetOrderHandler).Methods(http.MethodGet)
	v1.HandleFunc("/orders/{id}/status", h.Order.UpdateOrderStatusHandler).Methods(http.MethodPatch)
	v1.HandleFunc("/order-statuses", h.Order.ListStatusesHandler).Methods(http.MethodGet)

	v1.HandleFunc("/dashboard", h.Dashboard.DashboardHandler).Methods(http.MethodGet)
	v1.HandleFunc("/dashboard/stats", h.Dashboard.StatsHandler).Methods(http.MethodGet)
	v1.HandleFunc("/dashboard/sales", h.Dashboard.SalesHandler).Methods(http.MethodGet)
	v1.HandleFunc("/dashboard/recent-orders", h.Dashboard.RecentOrdersHandler).Methods(http.MethodGet)
	v1.HandleFunc("/dashboard/top-products", h.Dashboard.TopProductsHandler).Methods(http.MethodGet)

	v1.HandleFunc("/backup", h.Backup.ExportHandler).Methods(http.MethodGet)
	v1.HandleFunc("/backup", h.Backup.ImportHandler).Methods(http.MethodPost)

	// --- 4. Middlewares Globais (de fora para dentro) ---
	var handler http.Handler = r
	handler = handlers.CORS(
		handlers.AllowedOrigins(opts.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, "X-RateLimit-Remaining"}),
	)(handler)
	handler = middleware.AccessLog(log)(handler)
	handler = middleware.RequestID(handler)
	handler = handlers.ProxyHeaders(handler)
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log}))(handler)

	return handler
}

// recoveryLogger leva os pânicos recuperados para o Logger estruturado.
type recoveryLogger struct{ log logger.Logger }

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Pânico recuperado em um handler.", fmt.Errorf("%s", fmt.Sprint(v...)))
}
