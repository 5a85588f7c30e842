package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito: el precio queda fijado al momento de agregar el producto.
type CartItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal cantidad × precio fijado.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart agregado por usuario (uno activo por usuario). Items y TotalAmount se escriben juntos.
type Cart struct {
	ID          string
	UserID      string
	Items       []CartItem
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCart crea un carrito vacío para el usuario.
func NewCart(id, userID string, now time.Time) *Cart {
	return &Cart{
		ID:          id,
		UserID:      userID,
		Items:       []CartItem{},
		TotalAmount: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsEmpty indica si el carrito no tiene líneas.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Find devuelve el índice de la línea del producto o -1.
func (c *Cart) Find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem suma qty a la línea existente o agrega una nueva con el precio dado.
// Sobre una línea existente no se revalida el stock combinado (solo se compara qty contra el catálogo).
func (c *Cart) AddItem(productID string, qty int, price decimal.Decimal) {
	if idx := c.Find(productID); idx >= 0 {
		c.Items[idx].Quantity += qty
	} else {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty, Price: price})
	}
	c.Recalculate()
}

// SetQuantity sobrescribe la cantidad de una línea. Devuelve false si el producto no está.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	idx := c.Find(productID)
	if idx < 0 {
		return false
	}
	c.Items[idx].Quantity = qty
	c.Recalculate()
	return true
}

// RemoveItem quita la línea si existe (idempotente).
func (c *Cart) RemoveItem(productID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.Recalculate()
}

// Clear vacía el carrito sin eliminarlo.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// Recalculate TotalAmount = Σ cantidad × precio. Se llama en toda mutación.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	c.TotalAmount = total
}
