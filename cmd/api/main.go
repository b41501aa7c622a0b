package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/pos-backend/internal/application/auth"
	"github.com/tu-usuario/pos-backend/internal/application/authz"
	"github.com/tu-usuario/pos-backend/internal/application/billing"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/application/sales"
	"github.com/tu-usuario/pos-backend/internal/application/usecase"
	infrapdf "github.com/tu-usuario/pos-backend/internal/infrastructure/pdf"
	"github.com/tu-usuario/pos-backend/internal/infrastructure/postgres"
	"github.com/tu-usuario/pos-backend/internal/infrastructure/redisqueue"
	httpRouter "github.com/tu-usuario/pos-backend/internal/interfaces/http"
	"github.com/tu-usuario/pos-backend/pkg/config"
	"github.com/tu-usuario/pos-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	policy := authz.NewRolePolicy()

	// Avisos de stock bajo vía Redis; sin REDIS_ADDR la app funciona sin avisos.
	var notifier inventory.LowStockNotifier
	if cfg.Redis.Addr != "" {
		redisNotifier, err := redisqueue.NewNotifier(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisNotifier.Close()
		notifier = redisNotifier
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: avisos de stock bajo desactivados")
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, policy, notifier)
	movementLogUC := inventory.NewMovementLogUseCase(movementRepo)
	repositionUC := inventory.NewRepositionUseCase(productRepo)

	saleUC := sales.NewSaleUseCase(txRunner, ledgerUC, productRepo, saleRepo, customerRepo, policy)

	productUC := usecase.NewProductUseCase(productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	customerUC := billing.NewCustomerUseCase(customerRepo, policy)

	ticketGenerator := infrapdf.NewMarotoTicketGenerator(cfg.App.Name)
	ticketUC := billing.NewTicketUseCase(saleRepo, customerRepo, productRepo, userRepo, ticketGenerator, policy)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		CustomerUC:  customerUC,
		TicketUC:    ticketUC,
		Ledger:      ledgerUC,
		MovementLog: movementLogUC,
		Reposition:  repositionUC,
		SaleUC:      saleUC,
		JWTSecret:   cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
