package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
)

// seedProduct inserta un producto activo con precio y stock dados.
func seedProduct(t *testing.T, store *memory.Store, name, price string, stock int) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: "Producto de prueba " + name,
		Price:       decimal.RequireFromString(price),
		Category:    "Electronics",
		Stock:       stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

// seedUser inserta un usuario activo con el rol dado.
func seedUser(t *testing.T, store *memory.Store, email, role string) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Name:         "Usuario " + email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

// seedOrder inserta un pedido pendiente del usuario.
func seedOrder(t *testing.T, store *memory.Store, userID string) *entity.Order {
	t.Helper()
	now := time.Now()
	o := &entity.Order{
		ID:            uuid.New().String(),
		OrderID:       entity.NewReference(entity.OrderRefPrefix, now),
		UserID:        userID,
		Items:         []entity.OrderItem{{ProductID: uuid.New().String(), Name: "P1", Quantity: 1, Price: decimal.NewFromInt(10)}},
		TotalAmount:   decimal.NewFromInt(10),
		PaymentMethod: entity.PaymentMethodCreditCard,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.Orders().Create(context.Background(), o))
	return o
}
