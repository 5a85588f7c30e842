package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// uuidParam lee un path param que debe ser UUID. Uno mal formado se trata como
// inexistente (notFound) para no llegar a la base de datos.
func uuidParam(c *fiber.Ctx, name string, notFound error) (string, error) {
	id := c.Params(name)
	if id == "" {
		return "", &apiError{Status: fiber.StatusBadRequest, Code: "MISSING_ID", Message: name + " es requerido"}
	}
	if err := uuid.Validate(id); err != nil {
		return "", notFound
	}
	return id, nil
}
