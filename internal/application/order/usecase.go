package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// OrderUseCase flujo de colocación de pedidos y consultas sobre ellos.
type OrderUseCase struct {
	tx       TxRunner
	orders   repository.OrderRepository
	users    repository.UserRepository
	receipts ReceiptGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	users repository.UserRepository,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		tx:       tx,
		orders:   orders,
		users:    users,
		receipts: receipts,
		log:      log.Named("order"),
		now:      time.Now,
	}
}

// PlaceOrder convierte el carrito del usuario en un pedido inmutable. Dentro de una sola
// transacción: valida el stock de todas las líneas, crea el pedido, descuenta el stock y
// vacía el carrito. Si algo falla no queda ningún cambio.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if in.ShippingAddress == nil {
		return nil, domain.ErrInvalidInput
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentMethodCreditCard
	}

	var created *entity.Order
	err := uc.tx.RunOrder(ctx, func(
		productRepo repository.ProductRepository,
		cartRepo repository.CartRepository,
		orderRepo repository.OrderRepository,
	) error {
		cart, err := cartRepo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		// 1) Bloquear y validar el stock de todas las líneas antes de cualquier escritura.
		// Los productos se bloquean en orden de ID para que dos pedidos no se crucen.
		locked, err := lockProducts(ctx, productRepo, cart.Items)
		if err != nil {
			return err
		}
		items := make([]entity.OrderItem, 0, len(cart.Items))
		for _, it := range cart.Items {
			product := locked[it.ProductID]
			if product == nil {
				return &domain.StockError{ProductID: it.ProductID, Requested: it.Quantity}
			}
			if !product.HasStock(it.Quantity) {
				return &domain.StockError{ProductID: product.ID, Name: product.Name, Available: product.Stock, Requested: it.Quantity}
			}
			items = append(items, entity.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}

		// 2) Crear el pedido con el total del carrito.
		now := uc.now()
		order := &entity.Order{
			ID:              uuid.New().String(),
			OrderID:         entity.NewReference(entity.OrderRefPrefix, now),
			UserID:          userID,
			Items:           items,
			TotalAmount:     cart.TotalAmount,
			ShippingAddress: in.ShippingAddress.ToAddress(),
			PaymentMethod:   method,
			Status:          entity.OrderStatusPending,
			PaymentStatus:   entity.PaymentStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		// 3) Descontar stock; un descuento concurrente que deje stock negativo aborta todo.
		for _, it := range items {
			ok, err := productRepo.DecrementStock(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.StockError{ProductID: it.ProductID, Name: it.Name, Requested: it.Quantity}
			}
		}

		// 4) Vaciar el carrito (no se elimina).
		cart.Clear()
		cart.UpdatedAt = now
		if err := cartRepo.Save(ctx, cart); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", created.OrderID).
		Str("user_id", userID).
		Str("total", created.TotalAmount.StringFixed(2)).
		Int("items", len(created.Items)).
		Msg("pedido creado")

	resp := dto.ToOrderResponse(created)
	return &dto.CreateOrderResponse{
		OrderID:     created.OrderID,
		TotalAmount: created.TotalAmount,
		Status:      string(created.Status),
		Order:       *resp,
	}, nil
}

// List pedidos del usuario, más recientes primero (limit 1–50, por defecto 10).
func (uc *OrderUseCase) List(ctx context.Context, userID string, q dto.OrderQuery) (*dto.OrderListResponse, error) {
	q.DefaultPage(10, 50)
	list, total, err := uc.orders.ListByUser(ctx, userID, repository.OrderFilter{
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
		Limit:         q.Limit,
		Offset:        q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *dto.ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items:      items,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// Get devuelve el pedido si el solicitante es el dueño o admin.
func (uc *OrderUseCase) Get(ctx context.Context, id, requesterID, requesterRole string) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}
	return dto.ToOrderResponse(order), nil
}

// Receipt genera el comprobante PDF del pedido (mismas reglas de acceso que Get).
func (uc *OrderUseCase) Receipt(ctx context.Context, id, requesterID, requesterRole string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("receipt generator no configurado")
	}
	order, err := uc.load(ctx, id, requesterID, requesterRole)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.GenerateReceipt(ctx, order, customer)
	if err != nil {
		return nil, "", fmt.Errorf("generate receipt: %w", err)
	}
	return pdf, order.OrderID + ".pdf", nil
}

// lockProducts toma GetForUpdate de cada producto del carrito en orden ascendente de ID.
// Los productos inexistentes quedan como nil en el mapa.
func lockProducts(ctx context.Context, products repository.ProductRepository, lines []entity.CartItem) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(lines))
	for _, it := range lines {
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)

	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		p, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, nil
}

func (uc *OrderUseCase) load(ctx context.Context, id, requesterID, requesterRole string) (*entity.Order, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.BelongsTo(requesterID) && requesterRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return order, nil
}
