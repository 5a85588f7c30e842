package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingAddressRequest dirección de envío; todos los campos obligatorios.
type ShippingAddressRequest struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	ZipCode string `json:"zipCode" validate:"required,max=20"`
	Country string `json:"country" validate:"required,max=100"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ShippingAddress *ShippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                  `json:"paymentMethod" validate:"omitempty,oneof=credit_card debit_card upi net_banking cod"`
}

// OrderQuery parámetros de GET /api/orders.
type OrderQuery struct {
	PageRequest
	Status        string `query:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus string `query:"paymentStatus" validate:"omitempty,oneof=pending completed failed refunded"`
}

// OrderItemResponse línea congelada del pedido.
type OrderItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderID         string              `json:"orderId"`
	UserID          string              `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	ShippingAddress AddressDTO          `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"paymentStatus"`
	PaymentID       string              `json:"paymentId,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// OrderListResponse pedidos del usuario, más recientes primero.
type OrderListResponse struct {
	Items      []OrderResponse `json:"items"`
	Pagination *Pagination     `json:"pagination"`
}

// CreateOrderResponse respuesta de POST /api/orders.
type CreateOrderResponse struct {
	OrderID     string          `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	Order       OrderResponse   `json:"order"`
}
