package usecase

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// Dice devuelve un valor en [0,1). El pago tiene éxito cuando el valor es menor que la tasa.
type Dice func() float64

// PaymentConfig tasas de éxito de la pasarela simulada.
type PaymentConfig struct {
	IntentSuccessRate  float64
	ConfirmSuccessRate float64
}

// PaymentUseCase pasarela de pagos simulada sobre los pedidos existentes.
type PaymentUseCase struct {
	orders repository.OrderRepository
	cfg    PaymentConfig
	dice   Dice
	log    *logger.Logger
	now    func() time.Time
}

// NewPaymentUseCase construye el caso de uso. dice nil usa math/rand.
func NewPaymentUseCase(orders repository.OrderRepository, cfg PaymentConfig, dice Dice, log *logger.Logger) *PaymentUseCase {
	if dice == nil {
		dice = rand.Float64
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{orders: orders, cfg: cfg, dice: dice, log: log.Named("payment"), now: time.Now}
}

// CreateIntent simula la creación de un intento de pago. No modifica el pedido.
func (uc *PaymentUseCase) CreateIntent(ctx context.Context, userID, orderID string, amount decimal.Decimal) (*dto.PaymentIntentResponse, error) {
	order, err := uc.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.BelongsTo(userID) {
		return nil, domain.ErrForbidden
	}
	if uc.dice() >= uc.cfg.IntentSuccessRate {
		uc.log.Info().Str("order_id", orderID).Msg("intento de pago rechazado")
		return nil, domain.ErrPaymentDeclined
	}
	return &dto.PaymentIntentResponse{
		PaymentID: entity.NewReference(entity.PaymentRefPrefix, uc.now()),
		OrderID:   orderID,
		Amount:    amount,
		Status:    string(entity.PaymentStatusPending),
	}, nil
}

// Confirm simula el webhook de confirmación. En fallo persiste paymentStatus=failed y
// devuelve ErrPaymentFailed junto con el resultado; en éxito marca completed y avanza
// el pedido a processing. Un pago ya completado o reembolsado no se reconfirma.
func (uc *PaymentUseCase) Confirm(ctx context.Context, paymentID, orderID string) (*dto.ConfirmPaymentResponse, error) {
	order, err := uc.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !entity.CanTransitionPayment(order.PaymentStatus, entity.PaymentStatusCompleted) {
		return nil, domain.ErrInvalidTransition
	}
	order.UpdatedAt = uc.now()
	if uc.dice() >= uc.cfg.ConfirmSuccessRate {
		order.PaymentStatus = entity.PaymentStatusFailed
		if err := uc.orders.UpdatePayment(ctx, order); err != nil {
			return nil, err
		}
		uc.log.Info().Str("order_id", orderID).Str("payment_id", paymentID).Msg("confirmación de pago fallida")
		return &dto.ConfirmPaymentResponse{
			PaymentID: paymentID,
			OrderID:   orderID,
			Status:    string(entity.PaymentStatusFailed),
		}, domain.ErrPaymentFailed
	}

	order.PaymentStatus = entity.PaymentStatusCompleted
	order.PaymentID = paymentID
	if entity.CanTransitionStatus(order.Status, entity.OrderStatusProcessing) {
		order.Status = entity.OrderStatusProcessing
	}
	if err := uc.orders.UpdatePayment(ctx, order); err != nil {
		return nil, err
	}
	return &dto.ConfirmPaymentResponse{
		PaymentID: paymentID,
		OrderID:   orderID,
		Status:    string(entity.PaymentStatusCompleted),
		Order:     dto.ToOrderResponse(order),
	}, nil
}
