package domain

import (
	"time"
)

// CategoryAll é o valor sentinela de filtro que significa "sem filtro de categoria".
const CategoryAll = "all"

// LowStockThreshold: produtos com estoque abaixo deste valor contam como estoque baixo.
const LowStockThreshold = 10

// Categories é a lista aberta de categorias oferecida pelo painel.
var Categories = []string{
	"Elektronik",
	"Bilgisayar",
	"Tablet",
	"Ses & Görüntü",
	"Aksesuar",
	"Ev & Yaşam",
	"Spor & Outdoor",
}

// Product representa o item do catálogo (a Entidade).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// IsActive é apenas informativo: nenhuma listagem ou busca filtra por ele.
	IsActive bool `json:"isActive"`
}

// ProductInput é o payload de criação de produto.
type ProductInput struct {
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"notblank"`
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"` // ausente = true
}

// ProductPatch é a atualização parcial: apenas os campos não-nil são aplicados.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty" validate:"omitnil,notblank"`
	Description *string  `json:"description,omitempty" validate:"omitnil,notblank"`
	Price       *float64 `json:"price,omitempty" validate:"omitnil,gt=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitnil,gte=0"`
	Category    *string  `json:"category,omitempty" validate:"omitnil,required"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// Apply mescla o patch sobre o produto, campo a campo. Timestamps não são tocados.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.IsActive != nil {
		product.IsActive = *p.IsActive
	}
	return product
}

// StockAdjustmentRequest é o payload esperado para a requisição de ajuste de estoque.
type StockAdjustmentRequest struct {
	Delta int `json:"delta"` // Quantidade a ser adicionada/removida
}
