package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestProduct_CreateYDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()
	in := dto.CreateProductRequest{
		Name:        "Auriculares",
		Description: "Auriculares inalámbricos",
		Price:       decimal.RequireFromString("59.90"),
		Category:    "Electronics",
		Stock:       intPtr(5),
	}

	out, err := uc.Create(ctx, "admin-1", in)
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, "admin-1", out.CreatedBy)

	_, err = uc.Create(ctx, "admin-1", in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_UpdateParcialYRenombreDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()
	a := seedProduct(t, store, "Producto A", "10.00", 1)
	seedProduct(t, store, "Producto B", "10.00", 1)

	out, err := uc.Update(ctx, a.ID, dto.UpdateProductRequest{Stock: intPtr(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, out.Stock)
	assert.Equal(t, "Producto A", out.Name)

	_, err = uc.Update(ctx, a.ID, dto.UpdateProductRequest{Name: strPtr("Producto B")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, uuid.New().String(), dto.UpdateProductRequest{Stock: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProduct_ListFiltrosYPaginacion(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()
	seedProduct(t, store, "Cable USB", "5.00", 10)
	seedProduct(t, store, "Cargador USB", "25.00", 10)
	seedProduct(t, store, "Lámpara", "40.00", 10)

	out, err := uc.List(ctx, dto.ProductQuery{Search: "usb", SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Cable USB", out.Items[0].Name)
	assert.Equal(t, 1, out.Pagination.Page)
	assert.Equal(t, 10, out.Pagination.Limit)

	minPrice := 20.0
	out, err = uc.List(ctx, dto.ProductQuery{MinPrice: &minPrice, PageRequest: dto.PageRequest{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 2, out.Pagination.Total)
	assert.Equal(t, 2, out.Pagination.Pages)

	out, err = uc.List(ctx, dto.ProductQuery{PageRequest: dto.PageRequest{Limit: 500}})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Pagination.Limit, "limit se recorta a 100")
}

func TestProduct_GetYDelete(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()
	p := seedProduct(t, store, "Termo", "15.00", 3)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Termo", got.Name)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrProductNotFound)
}
