package dto

import "github.com/shopspring/decimal"

// PaymentIntentRequest body para POST /api/payment/intent.
type PaymentIntentRequest struct {
	OrderID string          `json:"orderId" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"gte=0"`
}

// PaymentIntentResponse intención simulada (sin efectos sobre el pedido).
type PaymentIntentResponse struct {
	PaymentID string          `json:"paymentId"`
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

// ConfirmPaymentRequest body para POST /api/payment/confirm.
type ConfirmPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	OrderID   string `json:"orderId" validate:"required"`
}

// ConfirmPaymentResponse resultado de la confirmación. Order solo va en éxito.
type ConfirmPaymentResponse struct {
	PaymentID string         `json:"paymentId"`
	OrderID   string         `json:"orderId"`
	Status    string         `json:"status"`
	Order     *OrderResponse `json:"order,omitempty"`
}
