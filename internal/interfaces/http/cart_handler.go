package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
)

// CartHandler carrito del usuario autenticado.
type CartHandler struct {
	uc *usecase.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *usecase.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=dto.CartResponse}
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "productId, quantity"
// @Success      200   {object}  dto.Envelope{data=dto.CartResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/cart/add [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Add(c.UserContext(), GetUserID(c), in.ProductID, in.Quantity)
	if err != nil {
		return err
	}
	return ok(c, "producto agregado al carrito", out)
}

// Update godoc
// @Summary      Cambiar cantidad de un producto
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCartRequest  true  "productId, quantity"
// @Success      200   {object}  dto.Envelope{data=dto.CartResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/cart/update [put]
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCartRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), in.ProductID, in.Quantity)
	if err != nil {
		return err
	}
	return ok(c, "carrito actualizado", out)
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.Envelope{data=dto.CartResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/cart/remove/{productId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	out, err := h.uc.Remove(c.UserContext(), GetUserID(c), c.Params("productId"))
	if err != nil {
		return err
	}
	return ok(c, "producto eliminado del carrito", out)
}
