package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrCartNotFound       = errors.New("carrito no encontrado")
	ErrItemNotInCart      = errors.New("el producto no está en el carrito")
	ErrOrderNotFound      = errors.New("pedido no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Autenticación
	ErrInvalidCredentials  = errors.New("email o contraseña inválidos")
	ErrAccountDeactivated  = errors.New("cuenta desactivada")
	ErrInvalidRefreshToken = errors.New("refresh token inválido o expirado")
	ErrRefreshTokenRevoked = errors.New("refresh token no encontrado o revocado")
	ErrRefreshTokenExpired = errors.New("refresh token expirado")
	ErrInvalidOTP          = errors.New("OTP inválido o expirado")
	ErrTooManyOTPAttempts  = errors.New("demasiados intentos, solicite un nuevo OTP")
	ErrSelfDeletion        = errors.New("no puede eliminar su propia cuenta")

	// Reglas de negocio
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrInvalidTransition = errors.New("transición de estado inválida")

	// Pasarela simulada
	ErrPaymentDeclined = errors.New("el pago fue rechazado, intente de nuevo")
	ErrPaymentFailed   = errors.New("la confirmación del pago falló")
)

// StockError identifica el producto sin stock suficiente. errors.Is(err, ErrInsufficientStock) es true.
type StockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("stock insuficiente para %s: solo hay %d disponibles", e.Name, e.Available)
	}
	return fmt.Sprintf("stock insuficiente: solo hay %d disponibles", e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
