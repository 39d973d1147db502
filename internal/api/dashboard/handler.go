package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"godash/internal/api/response"
	"godash/internal/domain"
	apperror "godash/internal/errors"
	"godash/internal/pkg/logger"
)

// DashboardService define o contrato que o Handler espera da camada de Serviço.
type DashboardService interface {
	Dashboard(ctx context.Context) (domain.DashboardData, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
	SalesSeries(ctx context.Context, days int) ([]domain.SalesData, error)
	SalesSeriesForRange(ctx context.Context, r domain.SalesRange) ([]domain.SalesData, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
}

// Handler agrupa os Handlers de leitura do painel.
type Handler struct {
	Service DashboardService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc DashboardService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// maxSeriesDays limita o tamanho da série pedida pela query string.
const maxSeriesDays = 366

// DashboardHandler lida com a requisição GET /v1/dashboard.
// @Summary Dados da página inicial do painel
// @Description Indicadores, série dos últimos 7 dias, 5 pedidos recentes e 5 produtos mais vendidos.
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.Result[domain.DashboardData]
// @Failure 500 {object} domain.Result[string] "Erro interno do servidor"
// @Router /dashboard [get]
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Dashboard(r.Context())
	response.Write(w, r, h.Logger, data, err, http.StatusOK)
}

// StatsHandler lida com a requisição GET /v1/dashboard/stats.
// @Summary Indicadores do painel
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.Result[domain.DashboardStats]
// @Router /dashboard/stats [get]
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	response.Write(w, r, h.Logger, stats, err, http.StatusOK)
}

// SalesHandler lida com a requisição GET /v1/dashboard/sales.
// days tem prioridade sobre range; sem nenhum dos dois, a série cobre 7 dias.
// @Summary Série diária de vendas
// @Tags dashboard
// @Produce json
// @Param days query int false "Número de dias (1 a 366)"
// @Param range query string false "daily, weekly ou monthly"
// @Success 200 {object} domain.Result[[]domain.SalesData]
// @Failure 400 {object} domain.Result[string] "Parâmetro inválido"
// @Router /dashboard/sales [get]
func (h *Handler) SalesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	if q.Has("days") {
		days, err := intParam(q.Get("days"), "days", 0, maxSeriesDays)
		if err != nil {
			response.Error(w, r, h.Logger, err)
			return
		}
		series, err := h.Service.SalesSeries(ctx, days)
		response.Write(w, r, h.Logger, series, err, http.StatusOK)
		return
	}

	series, err := h.Service.SalesSeriesForRange(ctx, domain.SalesRange(q.Get("range")))
	response.Write(w, r, h.Logger, series, err, http.StatusOK)
}

// RecentOrdersHandler lida com a requisição GET /v1/dashboard/recent-orders.
// @Summary Pedidos mais recentes
// @Tags dashboard
// @Produce json
// @Param limit query int false "Quantidade (padrão 5)"
// @Success 200 {object} domain.Result[[]domain.Order]
// @Router /dashboard/recent-orders [get]
func (h *Handler) RecentOrdersHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	orders, err := h.Service.RecentOrders(r.Context(), limit)
	response.Write(w, r, h.Logger, orders, err, http.StatusOK)
}

// TopProductsHandler lida com a requisição GET /v1/dashboard/top-products.
// @Summary Produtos mais vendidos
// @Tags dashboard
// @Produce json
// @Param limit query int false "Quantidade (padrão 5)"
// @Success 200 {object} domain.Result[[]domain.TopProduct]
// @Router /dashboard/top-products [get]
func (h *Handler) TopProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	top, err := h.Service.TopProducts(r.Context(), limit)
	response.Write(w, r, h.Logger, top, err, http.StatusOK)
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 5, nil
	}
	return intParam(raw, "limit", 1, 100)
}

func intParam(raw, name string, min, max int) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, apperror.NewValidationError(fmt.Sprintf("Parâmetro %s deve ser um inteiro entre %d e %d.", name, min, max))
	}
	return n, nil
}
