package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus estado logístico del pedido.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus estado del cobro del pedido.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodUPI        = "upi"
	PaymentMethodNetBanking = "net_banking"
	PaymentMethodCOD        = "cod"
)

var validOrderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true, OrderStatusCancelled: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

var validPaymentNext = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentStatusPending:   {PaymentStatusCompleted: true, PaymentStatusFailed: true},
	PaymentStatusCompleted: {PaymentStatusRefunded: true},
	PaymentStatusFailed:    {PaymentStatusCompleted: true, PaymentStatusFailed: true}, // reintento
	PaymentStatusRefunded:  {},
}

// CanTransitionStatus indica si el pedido puede pasar de from a to.
func CanTransitionStatus(from, to OrderStatus) bool {
	return validOrderNext[from][to]
}

// CanTransitionPayment indica si el cobro puede pasar de from a to.
func CanTransitionPayment(from, to PaymentStatus) bool {
	return validPaymentNext[from][to]
}

// ValidOrderStatus indica si s es un estado conocido.
func ValidOrderStatus(s string) bool {
	_, ok := validOrderNext[OrderStatus(s)]
	return ok
}

// ValidPaymentStatus indica si s es un estado de pago conocido.
func ValidPaymentStatus(s string) bool {
	_, ok := validPaymentNext[PaymentStatus(s)]
	return ok
}

// OrderItem línea congelada al momento de la compra.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal cantidad × precio congelado.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order snapshot inmutable de un carrito confirmado. Después de crearse solo cambian
// Status, PaymentStatus y PaymentID.
type Order struct {
	ID              string // uuid interno (/orders/:id)
	OrderID         string // legible: ORD-<millis>-<sufijo>
	UserID          string
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	ShippingAddress Address
	PaymentMethod   string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentID       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelongsTo indica si el pedido es del usuario.
func (o *Order) BelongsTo(userID string) bool {
	return o.UserID == userID
}

// Prefijos de las referencias legibles.
const (
	OrderRefPrefix   = "ORD"
	PaymentRefPrefix = "PAY"
)

// NewReference genera <prefix>-<unixmillis>-<8 hex en mayúsculas>.
func NewReference(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.SplitN(uuid.New().String(), "-", 2)[0])
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix)
}
