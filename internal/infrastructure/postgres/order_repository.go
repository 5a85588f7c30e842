package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository. Items y dirección se guardan en JSONB.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_id, user_id, items, total_amount, shipping_address, payment_method,
	status, payment_status, payment_id, created_at, updated_at`

// Create persiste el pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items, err := toJSONB(o.Items)
	if err != nil {
		return err
	}
	address, err := toJSONB(o.ShippingAddress)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.OrderID, o.UserID, items, o.TotalAmount, address, o.PaymentMethod,
		string(o.Status), string(o.PaymentStatus), o.PaymentID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por su uuid.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByOrderID obtiene un pedido por su referencia legible (ORD-…).
func (r *OrderRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
}

func (r *OrderRepo) findOne(ctx context.Context, query string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListByUser pedidos del usuario, más recientes primero, con total sin paginar.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, f repository.OrderFilter) ([]*entity.Order, int, error) {
	where := " WHERE user_id = $1"
	args := []any{userID}
	pos := 2
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.PaymentStatus != "" {
		where += fmt.Sprintf(" AND payment_status = $%d", pos)
		args = append(args, f.PaymentStatus)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// UpdatePayment persiste únicamente los campos de estado del pedido.
func (r *OrderRepo) UpdatePayment(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, payment_status = $3, payment_id = $4, updated_at = $5
		WHERE id = $1`,
		o.ID, string(o.Status), string(o.PaymentStatus), o.PaymentID, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o                     entity.Order
		items, address        []byte
		status, paymentStatus string
	)
	err := row.Scan(
		&o.ID, &o.OrderID, &o.UserID, &items, &o.TotalAmount, &address, &o.PaymentMethod,
		&status, &paymentStatus, &o.PaymentID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.PaymentStatus = entity.PaymentStatus(paymentStatus)
	o.Items = []entity.OrderItem{}
	if err := fromJSONB(items, &o.Items); err != nil {
		return nil, err
	}
	if err := fromJSONB(address, &o.ShippingAddress); err != nil {
		return nil, err
	}
	return &o, nil
}
