package http

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/pkg/config"
)

// Pinger verifica una conexión externa (*pgxpool.Pool, redisstore.Storage).
type Pinger interface {
	Ping(ctx context.Context) error
}

// UtilityHandler health, versión y rutas de simulacro de fallos.
type UtilityHandler struct {
	app       config.AppConfig
	db        Pinger
	cache     Pinger
	startedAt time.Time
	slowDelay time.Duration
	dice      func() float64
}

// NewUtilityHandler construye el handler. db puede ser nil (se reporta disconnected).
func NewUtilityHandler(app config.AppConfig, db Pinger) *UtilityHandler {
	return &UtilityHandler{
		app:       app,
		db:        db,
		startedAt: time.Now(),
		slowDelay: 5 * time.Second,
		dice:      rand.Float64,
	}
}

// WithCache agrega el estado de Redis al health. nil = sin Redis configurado.
func (h *UtilityHandler) WithCache(cache Pinger) *UtilityHandler {
	h.cache = cache
	return h
}

func ping(ctx context.Context, p Pinger) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         utility
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *UtilityHandler) Health(c *fiber.Ctx) error {
	database := "disconnected"
	if h.db != nil {
		database = ping(c.UserContext(), h.db)
	}
	body := fiber.Map{
		"success":     true,
		"status":      "ok",
		"uptime":      time.Since(h.startedAt).Seconds(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
		"database":    database,
		"environment": h.app.Env,
	}
	if h.cache != nil {
		body["cache"] = ping(c.UserContext(), h.cache)
	}
	return c.JSON(body)
}

// Version godoc
// @Summary      Versión de la API
// @Tags         utility
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/version [get]
func (h *UtilityHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"version":   h.app.Version,
		"buildDate": h.app.BuildDate,
		"goVersion": runtime.Version(),
	})
}

// Error500 siempre falla con 500.
func (h *UtilityHandler) Error500(c *fiber.Ctx) error {
	return errors.New("error 500 intencional")
}

// Slow responde después de slowDelay (o antes si el cliente cancela).
func (h *UtilityHandler) Slow(c *fiber.Ctx) error {
	select {
	case <-time.After(h.slowDelay):
	case <-c.UserContext().Done():
		return c.UserContext().Err()
	}
	return ok(c, "respuesta lenta completada", nil)
}

// Random responde 200, 400 o 500 con probabilidad ~1/3 cada uno.
func (h *UtilityHandler) Random(c *fiber.Ctx) error {
	switch r := h.dice(); {
	case r < 0.33:
		return ok(c, "respuesta aleatoria: éxito", nil)
	case r < 0.66:
		return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
			Success: false,
			Code:    "BAD_REQUEST",
			Message: "respuesta aleatoria: petición inválida",
		})
	default:
		return errors.New("respuesta aleatoria: error interno")
	}
}
