package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// CartUseCase opera el carrito de cada usuario. Toda mutación recalcula el total y
// persiste el agregado completo en una sola escritura.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products, now: time.Now}
}

// Get devuelve el carrito del usuario, creándolo vacío si no existe.
func (uc *CartUseCase) Get(ctx context.Context, userID string) (*dto.CartResponse, error) {
	cart, err := uc.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.populate(ctx, cart)
}

// Add agrega qty unidades al precio actual del catálogo. Si la línea ya existe suma la
// cantidad conservando el precio fijado; el stock se compara solo contra qty.
func (uc *CartUseCase) Add(ctx context.Context, userID, productID string, qty int) (*dto.CartResponse, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if !product.HasStock(qty) {
		return nil, &domain.StockError{ProductID: product.ID, Name: product.Name, Available: product.Stock, Requested: qty}
	}
	cart, err := uc.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.AddItem(productID, qty, product.Price)
	if err := uc.save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.populate(ctx, cart)
}

// Update sobrescribe la cantidad de una línea existente.
func (uc *CartUseCase) Update(ctx context.Context, userID, productID string, qty int) (*dto.CartResponse, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	cart, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	if cart.Find(productID) < 0 {
		return nil, domain.ErrItemNotInCart
	}
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if !product.HasStock(qty) {
		return nil, &domain.StockError{ProductID: product.ID, Name: product.Name, Available: product.Stock, Requested: qty}
	}
	cart.SetQuantity(productID, qty)
	if err := uc.save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.populate(ctx, cart)
}

// Remove quita la línea del producto. Quitar un producto ausente no es error.
func (uc *CartUseCase) Remove(ctx context.Context, userID, productID string) (*dto.CartResponse, error) {
	cart, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}
	cart.RemoveItem(productID)
	if err := uc.save(ctx, cart); err != nil {
		return nil, err
	}
	return uc.populate(ctx, cart)
}

func (uc *CartUseCase) loadOrCreate(ctx context.Context, userID string) (*entity.Cart, error) {
	cart, err := uc.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = entity.NewCart(uuid.New().String(), userID, uc.now())
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *CartUseCase) save(ctx context.Context, cart *entity.Cart) error {
	cart.Recalculate()
	cart.UpdatedAt = uc.now()
	return uc.carts.Save(ctx, cart)
}

// populate adjunta el estado actual de cada producto a las líneas.
func (uc *CartUseCase) populate(ctx context.Context, cart *entity.Cart) (*dto.CartResponse, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}
	products := map[string]*entity.Product{}
	if len(ids) > 0 {
		var err error
		products, err = uc.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	return dto.ToCartResponse(cart, products), nil
}
