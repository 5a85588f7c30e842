package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"required,min=10,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,category"`
	Stock       *int            `json:"stock" validate:"required,min=0"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,imageurl"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
}

// UpdateProductRequest body para PUT /api/products/:id (actualización parcial).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description" validate:"omitempty,min=10,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Category    *string          `json:"category" validate:"omitempty,category"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,imageurl"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	IsActive    *bool            `json:"isActive"`
}

// ProductQuery parámetros de GET /api/products.
type ProductQuery struct {
	PageRequest
	Search    string   `query:"search" validate:"omitempty,max=200"`
	Category  string   `query:"category"`
	MinPrice  *float64 `query:"minPrice" validate:"omitempty,min=0"`
	MaxPrice  *float64 `query:"maxPrice" validate:"omitempty,min=0"`
	SortBy    string   `query:"sortBy" validate:"omitempty,oneof=name price createdAt ratings.average"`
	SortOrder string   `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	IsActive  *bool    `query:"isActive"`
}

// RatingsDTO promedio y cantidad de calificaciones.
type RatingsDTO struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Ratings     RatingsDTO      `json:"ratings"`
	IsActive    bool            `json:"isActive"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination *Pagination       `json:"pagination"`
}
