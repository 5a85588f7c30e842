package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var (
	_ repository.CartRepository  = (*CartRepo)(nil)
	_ repository.OrderRepository = (*OrderRepo)(nil)
)

// CartRepo implementación en memoria de CartRepository.
type CartRepo struct {
	s    *Store
	undo *undoLog
}

// GetByUserID carrito del usuario o (nil, nil) si todavía no tiene.
func (r *CartRepo) GetByUserID(_ context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.carts[userID]; ok {
		return cloneCart(c), nil
	}
	return nil, nil
}

// GetForUpdate igual que GetByUserID; RunOrder ya serializa las transacciones.
func (r *CartRepo) GetForUpdate(ctx context.Context, userID string) (*entity.Cart, error) {
	return r.GetByUserID(ctx, userID)
}

// Save crea o reemplaza el carrito del usuario.
func (r *CartRepo) Save(_ context.Context, c *entity.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.undo.cart(r.s, c.UserID)
	r.s.carts[c.UserID] = cloneCart(c)
	return nil
}

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s    *Store
	undo *undoLog
}

// Create persiste el pedido. Referencia repetida devuelve ErrDuplicate.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.OrderID == o.OrderID {
			return domain.ErrDuplicate
		}
	}
	r.undo.order(r.s, o.ID)
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

// GetByID pedido por id interno o (nil, nil).
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

// GetByOrderID pedido por referencia legible (ORD-...) o (nil, nil).
func (r *OrderRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.OrderID == orderID {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

// ListByUser pedidos del usuario, más recientes primero, con filtros de estado.
func (r *OrderRepo) ListByUser(_ context.Context, userID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	var matched []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID != userID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.PaymentStatus != "" && string(o.PaymentStatus) != f.PaymentStatus {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	r.s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	start, end := window(f.Offset, f.Limit, total)
	return matched[start:end], total, nil
}

// UpdatePayment solo toca los campos de estado; items y total quedan intactos.
func (r *OrderRepo) UpdatePayment(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	r.undo.order(r.s, o.ID)
	stored.Status = o.Status
	stored.PaymentStatus = o.PaymentStatus
	stored.PaymentID = o.PaymentID
	stored.UpdatedAt = o.UpdatedAt
	return nil
}
