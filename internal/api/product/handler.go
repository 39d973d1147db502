package product

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"godash/internal/api/response"
	"godash/internal/domain"
	"godash/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query, category string) ([]domain.Product, error)
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListProductsHandler lida com a requisição GET /v1/products.
// Com q ou category na query string, aplica a busca; sem eles, devolve a coleção inteira.
// @Summary Lista ou busca produtos
// @Description Busca por texto no nome ou na descrição e filtra por categoria ("all" desliga o filtro).
// @Tags products
// @Produce json
// @Param q query string false "Texto da busca"
// @Param category query string false "Categoria exata ou all"
// @Success 200 {object} domain.Result[[]domain.Product] "Produtos na ordem da coleção"
// @Failure 500 {object} domain.Result[string] "Erro interno do servidor"
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		products []domain.Product
		err      error
	)
	if q.Has("q") || q.Has("category") {
		products, err = h.Service.SearchProducts(ctx, q.Get("q"), q.Get("category"))
	} else {
		products, err = h.Service.ListProducts(ctx)
	}
	response.Write(w, r, h.Logger, products, err, http.StatusOK)
}

// CreateProductHandler lida com a requisição POST /v1/products.
// @Summary Cria um produto
// @Description Gera ID e datas; isActive ausente vale true.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 201 {object} domain.Result[domain.Product] "Produto criado"
// @Failure 400 {object} domain.Result[string] "Payload inválido"
// @Failure 500 {object} domain.Result[string] "Erro interno do servidor"
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadPayload(w, r, h.Logger)
		return
	}

	product, err := h.Service.CreateProduct(r.Context(), input)
	response.Write(w, r, h.Logger, product, err, http.StatusCreated)
}

// GetProductHandler lida com a requisição GET /v1/products/{id}.
// @Summary Obtém um produto por ID
// @Tags products
// @Produce json
// @Param id path string true "ID do Produto"
// @Success 200 {object} domain.Result[domain.Product] "Produto encontrado"
// @Failure 404 {object} domain.Result[string] "Produto não encontrado"
// @Router /products/{id} [get]
func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProduct(r.Context(), mux.Vars(r)["id"])
	response.Write(w, r, h.Logger, product, err, http.StatusOK)
}

// UpdateProductHandler lida com a requisição PATCH /v1/products/{id}.
// Campos ausentes no corpo mantêm o valor atual.
// @Summary Atualiza parcialmente um produto
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID do Produto"
// @Param patch body domain.ProductPatch true "Campos a alterar"
// @Success 200 {object} domain.Result[domain.Product] "Produto atualizado"
// @Failure 400 {object} domain.Result[string] "Payload inválido"
// @Failure 404 {object} domain.Result[string] "Produto não encontrado"
// @Router /products/{id} [patch]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadPayload(w, r, h.Logger)
		return
	}

	product, err := h.Service.UpdateProduct(r.Context(), mux.Vars(r)["id"], patch)
	response.Write(w, r, h.Logger, product, err, http.StatusOK)
}

// DeleteProductHandler lida com a requisição DELETE /v1/products/{id}.
// @Summary Remove um produto
// @Tags products
// @Param id path string true "ID do Produto"
// @Success 200 {object} domain.Result[string] "Produto removido"
// @Failure 404 {object} domain.Result[string] "Produto não encontrado"
// @Router /products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.OK(w, h.Logger)
}

// ListCategoriesHandler lida com a requisição GET /v1/categories.
// @Summary Lista as categorias sugeridas
// @Tags products
// @Produce json
// @Success 200 {object} domain.Result[[]string]
// @Router /categories [get]
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, domain.Categories, nil, http.StatusOK)
}
