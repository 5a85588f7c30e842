package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo guarda cada carrito como una fila con sus líneas en JSONB.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

const cartColumns = `id, user_id, items, total_amount, created_at, updated_at`

// GetByUserID obtiene el carrito del usuario.
func (r *CartRepo) GetByUserID(ctx context.Context, userID string) (*entity.Cart, error) {
	return r.findOne(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1`, userID)
}

// GetForUpdate obtiene el carrito con FOR UPDATE: un segundo pedido del mismo usuario
// espera al primero y luego ve el carrito ya vacío.
func (r *CartRepo) GetForUpdate(ctx context.Context, userID string) (*entity.Cart, error) {
	return r.findOne(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *CartRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Cart, error) {
	var (
		c     entity.Cart
		items []byte
	)
	err := r.q.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.UserID, &items, &c.TotalAmount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	c.Items = []entity.CartItem{}
	if err := fromJSONB(items, &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save upsert del carrito completo: líneas y total se escriben en la misma sentencia.
func (r *CartRepo) Save(ctx context.Context, c *entity.Cart) error {
	items := c.Items
	if items == nil {
		items = []entity.CartItem{}
	}
	raw, err := toJSONB(items)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO carts (id, user_id, items, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET items = EXCLUDED.items, total_amount = EXCLUDED.total_amount, updated_at = EXCLUDED.updated_at`,
		c.ID, c.UserID, raw, c.TotalAmount, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
