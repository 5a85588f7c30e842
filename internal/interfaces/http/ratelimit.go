package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/pkg/config"
)

// RateLimiters limitadores por familia de rutas (ventana fija por IP).
type RateLimiters struct {
	General       fiber.Handler
	Login         fiber.Handler
	Signup        fiber.Handler
	PasswordReset fiber.Handler
	Payment       fiber.Handler
	Cart          fiber.Handler
}

// NewRateLimiters construye los limitadores. storage nil = memoria del proceso;
// con Redis los contadores se comparten entre réplicas.
func NewRateLimiters(cfg config.RateLimitConfig, storage fiber.Storage) RateLimiters {
	mk := func(name string, l config.Limit, message string) fiber.Handler {
		if !cfg.Enabled || l.Max <= 0 {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return limiter.New(limiter.Config{
			Max:        l.Max,
			Expiration: l.Window,
			Storage:    storage,
			KeyGenerator: func(c *fiber.Ctx) string {
				return name + ":" + c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.Envelope{
					Success: false,
					Code:    "RATE_LIMITED",
					Message: message,
				})
			},
		})
	}
	return RateLimiters{
		General:       mk("general", cfg.General, "demasiadas peticiones, intente más tarde"),
		Login:         mk("login", cfg.Login, "demasiados intentos de inicio de sesión, intente en 15 minutos"),
		Signup:        mk("signup", cfg.Signup, "demasiados registros, intente en 15 minutos"),
		PasswordReset: mk("password-reset", cfg.PasswordReset, "demasiados intentos de recuperación, intente en 15 minutos"),
		Payment:       mk("payment", cfg.Payment, "demasiados intentos de pago, intente en 15 minutos"),
		Cart:          mk("cart", cfg.Cart, "demasiadas operaciones sobre el carrito, espere un momento"),
	}
}

// withDefaults reemplaza los limitadores no configurados por un pass-through.
func (r RateLimiters) withDefaults() RateLimiters {
	next := func(c *fiber.Ctx) error { return c.Next() }
	for _, h := range []*fiber.Handler{&r.General, &r.Login, &r.Signup, &r.PasswordReset, &r.Payment, &r.Cart} {
		if *h == nil {
			*h = next
		}
	}
	return r
}
