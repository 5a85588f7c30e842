package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías permitidas del catálogo.
var ProductCategories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Kitchen",
	"Sports",
	"Toys",
	"Beauty",
	"Automotive",
	"Food & Beverages",
	"Health",
	"Other",
}

// Product representa un producto del catálogo. Stock es un contador que el flujo de pedidos descuenta.
type Product struct {
	ID            string
	Name          string // único en el catálogo
	Description   string
	Price         decimal.Decimal
	Category      string
	Stock         int
	ImageURL      string
	Brand         string
	RatingAverage decimal.Decimal
	RatingCount   int
	IsActive      bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasStock indica si hay al menos qty unidades disponibles.
func (p *Product) HasStock(qty int) bool {
	return p.Stock >= qty
}
