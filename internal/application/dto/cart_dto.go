package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddToCartRequest body para POST /api/cart/add.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// UpdateCartRequest body para PUT /api/cart/update.
type UpdateCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// CartProductDTO datos actuales del producto en una línea del carrito.
type CartProductDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Stock    int             `json:"stock"`
}

// CartItemResponse línea con precio fijado y producto actual (nil si fue eliminado).
type CartItemResponse struct {
	ProductID string          `json:"productId"`
	Product   *CartProductDTO `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito del usuario.
type CartResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Items       []CartItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
