package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// CartRepository persiste el carrito como un único documento (items + total).
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Cart, error)
	// GetForUpdate como GetByUserID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, userID string) (*entity.Cart, error)
	// Save inserta o reemplaza el carrito completo del usuario en una sola escritura.
	Save(ctx context.Context, cart *entity.Cart) error
}
