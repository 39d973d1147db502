package stock

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"godash/internal/api/response"
	"godash/internal/domain"
	"godash/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, productID string, adjustment domain.StockAdjustmentRequest) (domain.Product, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// AdjustStockHandler lida com a requisição POST /v1/products/{id}/stock.
// @Summary Ajusta o estoque de um produto
// @Description Soma delta (positivo ou negativo) ao estoque atual; o resultado não pode ser negativo.
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "ID do Produto"
// @Param adjustment body domain.StockAdjustmentRequest true "Variação do estoque"
// @Success 200 {object} domain.Result[domain.Product] "Produto com o estoque ajustado"
// @Failure 400 {object} domain.Result[string] "Delta inválido ou estoque insuficiente"
// @Failure 404 {object} domain.Result[string] "Produto não encontrado"
// @Failure 500 {object} domain.Result[string] "Erro interno do servidor"
// @Router /products/{id}/stock [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var adjustment domain.StockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&adjustment); err != nil {
		response.BadPayload(w, r, h.Logger)
		return
	}

	product, err := h.Service.AdjustStock(r.Context(), mux.Vars(r)["id"], adjustment)
	response.Write(w, r, h.Logger, product, err, http.StatusOK)
}
