package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain"
)

// PaymentHandler pasarela simulada.
type PaymentHandler struct {
	uc *usecase.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateIntent godoc
// @Summary      Crear intención de pago
// @Tags         payment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentIntentRequest  true  "orderId, amount"
// @Success      200   {object}  dto.Envelope{data=dto.PaymentIntentResponse}
// @Failure      400   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/payment/intent [post]
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var in dto.PaymentIntentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateIntent(c.UserContext(), GetUserID(c), in.OrderID, in.Amount)
	if err != nil {
		return err
	}
	return ok(c, "intención de pago creada", out)
}

// Confirm godoc
// @Summary      Confirmar pago
// @Description  En fallo simulado responde 400 con el estado failed en data.
// @Tags         payment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmPaymentRequest  true  "paymentId, orderId"
// @Success      200   {object}  dto.Envelope{data=dto.ConfirmPaymentResponse}
// @Failure      400   {object}  dto.Envelope{data=dto.ConfirmPaymentResponse}
// @Failure      404   {object}  dto.Envelope
// @Router       /api/payment/confirm [post]
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Confirm(c.UserContext(), in.PaymentID, in.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentFailed) && out != nil {
			return &apiError{Status: fiber.StatusBadRequest, Code: "PAYMENT_FAILED", Message: err.Error(), Data: out}
		}
		return err
	}
	return ok(c, "pago confirmado", out)
}
