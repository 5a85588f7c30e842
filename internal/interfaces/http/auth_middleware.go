package http

import (
	"errors"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	pkgjwt "github.com/jhoicas/tienda-api/pkg/jwt"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AccessVerifier verifica tokens (lo implementa *jwt.Issuer).
type AccessVerifier interface {
	Verify(token string, class pkgjwt.Class) (*pkgjwt.Claims, error)
}

var (
	errMissingToken = &apiError{Status: fiber.StatusUnauthorized, Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	errTokenFormat  = &apiError{Status: fiber.StatusUnauthorized, Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	errBadToken     = &apiError{Status: fiber.StatusUnauthorized, Code: "INVALID_TOKEN", Message: "token inválido"}
	errExpiredToken = &apiError{Status: fiber.StatusUnauthorized, Code: "TOKEN_EXPIRED", Message: "token expirado"}
	errMissingRole  = &apiError{Status: fiber.StatusUnauthorized, Code: "MISSING_ROLE", Message: "el token no incluye rol"}
	errRoleDenied   = &apiError{Status: fiber.StatusForbidden, Code: "FORBIDDEN", Message: "no tiene permisos para este recurso"}
)

// AuthMiddleware valida el Bearer access token y deja UserID y Role en c.Locals.
// Un refresh token nunca pasa (se firma con otro secreto y lleva otra clase).
func AuthMiddleware(verifier AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return errMissingToken
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return errTokenFormat
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return errMissingToken
		}
		claims, err := verifier.Verify(tokenString, pkgjwt.Access)
		if err != nil {
			if errors.Is(err, pkgjwt.ErrTokenExpired) {
				return errExpiredToken
			}
			return errBadToken
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe montarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return errMissingRole
		}
		if !slices.Contains(roles, role) {
			return errRoleDenied
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
