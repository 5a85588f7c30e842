package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func TestOrderStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.OrderStatus
		ok       bool
	}{
		{entity.OrderStatusPending, entity.OrderStatusProcessing, true},
		{entity.OrderStatusProcessing, entity.OrderStatusShipped, true},
		{entity.OrderStatusShipped, entity.OrderStatusDelivered, true},
		{entity.OrderStatusPending, entity.OrderStatusCancelled, true},
		{entity.OrderStatusShipped, entity.OrderStatusCancelled, true},
		{entity.OrderStatusDelivered, entity.OrderStatusCancelled, false},
		{entity.OrderStatusCancelled, entity.OrderStatusPending, false},
		{entity.OrderStatusPending, entity.OrderStatusDelivered, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, entity.CanTransitionStatus(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentStatus_Transiciones(t *testing.T) {
	assert.True(t, entity.CanTransitionPayment(entity.PaymentStatusPending, entity.PaymentStatusCompleted))
	assert.True(t, entity.CanTransitionPayment(entity.PaymentStatusPending, entity.PaymentStatusFailed))
	assert.True(t, entity.CanTransitionPayment(entity.PaymentStatusCompleted, entity.PaymentStatusRefunded))
	assert.True(t, entity.CanTransitionPayment(entity.PaymentStatusFailed, entity.PaymentStatusCompleted), "un pago fallido se puede reintentar")
	assert.False(t, entity.CanTransitionPayment(entity.PaymentStatusFailed, entity.PaymentStatusRefunded))
	assert.False(t, entity.CanTransitionPayment(entity.PaymentStatusCompleted, entity.PaymentStatusFailed))
	assert.False(t, entity.CanTransitionPayment(entity.PaymentStatusRefunded, entity.PaymentStatusPending))
}

func TestValidStatusNames(t *testing.T) {
	assert.True(t, entity.ValidOrderStatus("shipped"))
	assert.False(t, entity.ValidOrderStatus("lost"))
	assert.True(t, entity.ValidPaymentStatus("refunded"))
	assert.False(t, entity.ValidPaymentStatus("partial"))
}
