package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func sumItems(c *entity.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// El total del carrito siempre coincide con Σ cantidad × precio después de cada mutación.
func TestCart_TotalInvarianteTrasCadaMutacion(t *testing.T) {
	c := entity.NewCart("c1", "u1", time.Now())
	assert.True(t, c.TotalAmount.Equal(decimal.Zero))

	steps := []func(){
		func() { c.AddItem("p1", 2, decimal.RequireFromString("20.00")) },
		func() { c.AddItem("p2", 1, decimal.RequireFromString("9.99")) },
		func() { c.AddItem("p1", 3, decimal.RequireFromString("25.00")) }, // precio nuevo ignorado: se suma cantidad
		func() { require.True(t, c.SetQuantity("p2", 4)) },
		func() { c.RemoveItem("p1") },
		func() { c.RemoveItem("no-existe") },
		func() { c.Clear() },
	}
	for i, step := range steps {
		step()
		assert.True(t, c.TotalAmount.Equal(sumItems(c)),
			"paso %d: total %s debe ser %s", i, c.TotalAmount, sumItems(c))
	}
}

func TestCart_AddItemAcumulaCantidadSinDuplicarLinea(t *testing.T) {
	c := entity.NewCart("c1", "u1", time.Now())
	c.AddItem("p1", 2, decimal.NewFromInt(20))
	c.AddItem("p1", 3, decimal.NewFromInt(99))

	require.Len(t, c.Items, 1, "una sola línea por producto")
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, c.Items[0].Price.Equal(decimal.NewFromInt(20)), "el precio queda fijado en la primera inserción")
	assert.True(t, c.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestCart_SetQuantityProductoAusente(t *testing.T) {
	c := entity.NewCart("c1", "u1", time.Now())
	assert.False(t, c.SetQuantity("p1", 2))
}

func TestCart_ClearDejaCarritoVacio(t *testing.T) {
	c := entity.NewCart("c1", "u1", time.Now())
	c.AddItem("p1", 2, decimal.NewFromInt(20))
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Items, "items vacío, no nil, para serializar []")
	assert.True(t, c.TotalAmount.IsZero())
}
