package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/order"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// repositories agrupa los adaptadores de persistencia elegidos por STORAGE_DRIVER.
type repositories struct {
	users    repository.UserRepository
	tokens   repository.RefreshTokenRepository
	otps     repository.OTPRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	tx       order.TxRunner
	db       httpRouter.Pinger
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, err := openRepositories(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer repos.close()

	issuer, err := jwt.NewIssuer(jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL(),
		RefreshTTL:    cfg.JWT.RefreshTTL(),
		Issuer:        cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar JWT")
	}

	authUC := auth.NewAuthUseCase(repos.users, repos.tokens, repos.otps, issuer, auth.Config{
		RefreshTTL:     cfg.JWT.RefreshTTL(),
		OTPTTL:         cfg.OTP.TTL(),
		OTPMaxAttempts: cfg.OTP.MaxAttempts,
		ExposeOTP:      cfg.App.IsDevelopment(),
	}, log)
	userUC := usecase.NewUserUseCase(repos.users)
	productUC := usecase.NewProductUseCase(repos.products)
	cartUC := usecase.NewCartUseCase(repos.carts, repos.products)
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name)
	orderUC := order.NewOrderUseCase(repos.tx, repos.orders, repos.users, receipts, log)
	paymentUC := usecase.NewPaymentUseCase(repos.orders, usecase.PaymentConfig{
		IntentSuccessRate:  cfg.Payment.IntentSuccessRate,
		ConfirmSuccessRate: cfg.Payment.ConfirmSuccessRate,
	}, nil, log)

	// Rate limiter: Redis si está configurado, si no memoria del proceso.
	var (
		limiterStorage fiber.Storage
		cache          httpRouter.Pinger
	)
	if cfg.Redis.Addr != "" {
		store, err := redisstore.New(ctx, cfg.Redis, "tienda:rl:")
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer store.Close()
		limiterStorage = store
		cache = store
	}
	limits := httpRouter.NewRateLimiters(cfg.RateLimit, limiterStorage)

	go purgeLoop(ctx, authUC, time.Duration(cfg.DB.PurgeIntervalMinutes)*time.Minute, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    1 << 20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(requestid.New())
	app.Use(log.Middleware())
	app.Use(recover.New()) // dentro del logger: los panics también quedan registrados como 500
	app.Use(helmet.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Tienda API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		ProductUC: productUC,
		CartUC:    cartUC,
		OrderUC:   orderUC,
		PaymentUC: paymentUC,
		Verifier:  issuer,
		Limits:    limits,
		App:       cfg.App,
		DB:        repos.db,
		Cache:     cache,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repositories, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			tokens:   store.RefreshTokens(),
			otps:     store.OTPs(),
			products: store.Products(),
			carts:    store.Carts(),
			orders:   store.Orders(),
			tx:       store,
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &repositories{
		users:    postgres.NewUserRepository(pool),
		tokens:   postgres.NewRefreshTokenRepository(pool),
		otps:     postgres.NewOTPRepository(pool),
		products: postgres.NewProductRepository(pool),
		carts:    postgres.NewCartRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		db:       pool,
		close:    pool.Close,
	}, nil
}

// purgeLoop elimina periódicamente OTP y refresh tokens vencidos hasta que ctx se cancela.
func purgeLoop(ctx context.Context, authUC *auth.AuthUseCase, every time.Duration, log *logger.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authUC.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("purga de credenciales vencidas")
				continue
			}
			log.Debug().Int64("rows", n).Msg("purga de credenciales vencidas")
		}
	}
}
