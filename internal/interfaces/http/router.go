package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ProductUC *usecase.ProductUseCase
	CartUC    *usecase.CartUseCase
	OrderUC   *order.OrderUseCase
	PaymentUC *usecase.PaymentUseCase
	Verifier  AccessVerifier
	Limits    RateLimiters
	App       config.AppConfig
	DB        Pinger
	Cache     Pinger // Redis del rate limiter; nil si no está configurado
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	deps.Limits = deps.Limits.withDefaults()
	api := app.Group("/api", deps.Limits.General)

	// Utilidades (público)
	utilHandler := NewUtilityHandler(deps.App, deps.DB).WithCache(deps.Cache)
	api.Get("/health", utilHandler.Health)
	api.Get("/version", utilHandler.Version)
	if deps.App.ErrorRoutes {
		errGroup := api.Group("/error")
		errGroup.Get("/500", utilHandler.Error500)
		errGroup.Get("/slow", utilHandler.Slow)
		errGroup.Get("/random", utilHandler.Random)
	}

	requireAuth := AuthMiddleware(deps.Verifier)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", deps.Limits.Signup, authHandler.Signup)
	authGroup.Post("/login", deps.Limits.Login, authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/forgot-password", deps.Limits.PasswordReset, authHandler.ForgotPassword)
	authGroup.Post("/reset-password", deps.Limits.PasswordReset, authHandler.ResetPassword)

	// Users (protegido)
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Put("/me", userHandler.UpdateMe)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Products (lectura pública, escritura admin)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, adminOnly, productHandler.Create)
	products.Put("/:id", requireAuth, adminOnly, productHandler.Update)
	products.Delete("/:id", requireAuth, adminOnly, productHandler.Delete)

	// Cart (protegido)
	cart := api.Group("/cart", requireAuth)
	cartHandler := NewCartHandler(deps.CartUC)
	cart.Get("/", cartHandler.Get)
	cart.Post("/add", deps.Limits.Cart, cartHandler.Add)
	cart.Put("/update", deps.Limits.Cart, cartHandler.Update)
	cart.Delete("/remove/:productId", cartHandler.Remove)

	// Orders (protegido; detalle solo dueño o admin)
	orders := api.Group("/orders", requireAuth)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)

	// Payment (protegido)
	payment := api.Group("/payment", requireAuth, deps.Limits.Payment)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payment.Post("/intent", paymentHandler.CreateIntent)
	payment.Post("/confirm", paymentHandler.Confirm)
}
