package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/domain"
)

// OrderHandler creación y consulta de pedidos.
type OrderHandler struct {
	uc *order.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido desde el carrito
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "shippingAddress, paymentMethod"
// @Success      201   {object}  dto.Envelope{data=dto.CreateOrderResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.PlaceOrder(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return created(c, "pedido creado", out)
}

// List godoc
// @Summary      Mis pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        page           query  int     false  "Página"  default(1)
// @Param        limit          query  int     false  "Límite (máx. 50)"  default(10)
// @Param        status         query  string  false  "Estado del pedido"
// @Param        paymentStatus  query  string  false  "Estado del pago"
// @Success      200  {object}  dto.Envelope{data=[]dto.OrderResponse}
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), q)
	if err != nil {
		return err
	}
	return page(c, out.Items, out.Pagination)
}

// GetByID godoc
// @Summary      Detalle de un pedido (dueño o admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.Envelope{data=dto.OrderResponse}
// @Failure      403  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", domain.ErrOrderNotFound)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return err
	}
	return ok(c, "", out)
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", domain.ErrOrderNotFound)
	if err != nil {
		return err
	}
	pdf, filename, err := h.uc.Receipt(c.UserContext(), id, GetUserID(c), GetRole(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
