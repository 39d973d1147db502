package order

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"godash/internal/api/response"
	"godash/internal/domain"
	"godash/internal/pkg/logger"
)

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	SearchOrders(ctx context.Context, query string, status domain.OrderStatus) ([]domain.Order, error)
}

// Handler agrupa todos os métodos de Handler de pedidos.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// statusOption é um item da lista de status oferecida pelo painel.
type statusOption struct {
	Value domain.OrderStatus `json:"value"`
	Label string             `json:"label"`
}

// ListOrdersHandler lida com a requisição GET /v1/orders.
// @Summary Lista ou busca pedidos
// @Description Com q ou status, busca por número, cliente ou e-mail; o resultado vem do mais novo para o mais antigo.
// @Tags orders
// @Produce json
// @Param q query string false "Texto da busca"
// @Param status query string false "Status exato ou all"
// @Success 200 {object} domain.Result[[]domain.Order]
// @Failure 500 {object} domain.Result[string] "Erro interno do servidor"
// @Router /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		orders []domain.Order
		err    error
	)
	if q.Has("q") || q.Has("status") {
		orders, err = h.Service.SearchOrders(ctx, q.Get("q"), domain.OrderStatus(q.Get("status")))
	} else {
		orders, err = h.Service.ListOrders(ctx)
	}
	response.Write(w, r, h.Logger, orders, err, http.StatusOK)
}

// GetOrderHandler lida com a requisição GET /v1/orders/{id}.
// @Summary Obtém um pedido por ID
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.Result[domain.Order]
// @Failure 404 {object} domain.Result[string] "Pedido não encontrado"
// @Router /orders/{id} [get]
func (h *Handler) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := h.Service.GetOrder(r.Context(), mux.Vars(r)["id"])
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// UpdateOrderStatusHandler lida com a requisição PATCH /v1/orders/{id}/status.
// @Summary Altera o status de um pedido
// @Description Qualquer transição entre os cinco status é aceita.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID do Pedido"
// @Param status body domain.OrderStatusUpdate true "Novo status"
// @Success 200 {object} domain.Result[domain.Order]
// @Failure 400 {object} domain.Result[string] "Status inválido"
// @Failure 404 {object} domain.Result[string] "Pedido não encontrado"
// @Router /orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var update domain.OrderStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadPayload(w, r, h.Logger)
		return
	}

	order, err := h.Service.UpdateOrderStatus(r.Context(), mux.Vars(r)["id"], update.Status)
	response.Write(w, r, h.Logger, order, err, http.StatusOK)
}

// ListStatusesHandler lida com a requisição GET /v1/order-statuses.
// @Summary Lista os status de pedido com os rótulos exibidos
// @Tags orders
// @Produce json
// @Success 200 {object} domain.Result[[]statusOption]
// @Router /order-statuses [get]
func (h *Handler) ListStatusesHandler(w http.ResponseWriter, r *http.Request) {
	options := make([]statusOption, 0, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		options = append(options, statusOption{Value: s, Label: domain.StatusLabels[s]})
	}
	response.Write(w, r, h.Logger, options, nil, http.StatusOK)
}
