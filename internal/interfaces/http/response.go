package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	pkgjwt "github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// apiError error ya traducido a HTTP (status + código estable).
type apiError struct {
	Status  int
	Code    string
	Message string
	Data    interface{}
}

func (e *apiError) Error() string { return e.Message }

var errInvalidBody = &apiError{Status: fiber.StatusBadRequest, Code: "INVALID_BODY", Message: "cuerpo inválido"}

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable orden relevante: se usa el primer match con errors.Is.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},

	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrCartNotFound, fiber.StatusNotFound, "CART_NOT_FOUND"},
	{domain.ErrItemNotInCart, fiber.StatusNotFound, "ITEM_NOT_IN_CART"},
	{domain.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},

	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},

	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrInvalidRefreshToken, fiber.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{domain.ErrRefreshTokenRevoked, fiber.StatusUnauthorized, "REFRESH_TOKEN_REVOKED"},
	{domain.ErrRefreshTokenExpired, fiber.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{pkgjwt.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
	{pkgjwt.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrAccountDeactivated, fiber.StatusForbidden, "ACCOUNT_DEACTIVATED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},

	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrEmptyCart, fiber.StatusBadRequest, "EMPTY_CART"},
	{domain.ErrInvalidOTP, fiber.StatusBadRequest, "INVALID_OTP"},
	{domain.ErrTooManyOTPAttempts, fiber.StatusBadRequest, "TOO_MANY_ATTEMPTS"},
	{domain.ErrSelfDeletion, fiber.StatusBadRequest, "SELF_DELETION"},
	{domain.ErrInvalidTransition, fiber.StatusBadRequest, "INVALID_TRANSITION"},

	{domain.ErrPaymentDeclined, fiber.StatusBadRequest, "PAYMENT_DECLINED"},
	{domain.ErrPaymentFailed, fiber.StatusBadRequest, "PAYMENT_FAILED"},
}

// translate convierte err en apiError. ok=false si el error no es conocido (500).
func translate(err error) (*apiError, bool) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae, true
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			// StockError trae el mensaje con el producto y la cantidad disponible.
			return &apiError{Status: m.status, Code: m.code, Message: err.Error()}, true
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return &apiError{Status: fe.Code, Code: fiberCode(fe.Code), Message: fe.Message}, true
	}
	return nil, false
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "ROUTE_NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "ERROR"
	}
}

// ErrorHandler punto único de traducción de errores: los handlers solo devuelven el error.
// Los errores de dominio se mapean con errorTable; los inesperados se registran y se
// responden como 500 sin detalles.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ae, ok := translate(err); ok {
			return c.Status(ae.Status).JSON(dto.Envelope{Success: false, Code: ae.Code, Message: ae.Message, Data: ae.Data})
		}
		ev := log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path())
		if rid, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", rid)
		}
		ev.Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Envelope{
			Success: false,
			Code:    "INTERNAL",
			Message: "error interno del servidor",
		})
	}
}

// ok responde 200 con data y mensaje opcional.
func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

// created responde 201.
func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

// page responde 200 con los items y los metadatos de paginación.
func page(c *fiber.Ctx, items interface{}, p *dto.Pagination) error {
	return c.JSON(dto.Envelope{Success: true, Data: items, Pagination: p})
}
