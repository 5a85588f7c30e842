package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos de un usuario.
type OrderFilter struct {
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

// OrderRepository define el puerto de persistencia para Order. Items y total no tienen
// operación de actualización: el pedido es inmutable salvo sus estados.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string, filter OrderFilter) ([]*entity.Order, int, error)
	// UpdatePayment persiste Status, PaymentStatus y PaymentID.
	UpdatePayment(ctx context.Context, order *entity.Order) error
}
