package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-backend/internal/application/auth"
	"github.com/tu-usuario/pos-backend/internal/application/billing"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/application/sales"
	"github.com/tu-usuario/pos-backend/internal/application/usecase"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	CustomerUC  *billing.CustomerUseCase
	TicketUC    *billing.TicketUseCase
	Ledger      *inventory.LedgerUseCase
	MovementLog *inventory.MovementLogUseCase
	Reposition  *inventory.RepositionUseCase
	SaleUC      *sales.SaleUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	// El registro de usuarios es operación de administrador.
	authGroup.Post("/register",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdministrador),
		authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdministrador)

	// Products (protegido; mutaciones solo administrador)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categories (protegido; mutaciones solo administrador)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Inventory (protegido; la política por rol la aplica el caso de uso:
	// entrada/salida para cualquier rol autenticado, ajuste solo administrador)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.MovementLog, deps.Reposition)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/reposition", inventoryHandler.RepositionList)

	// Customers (protegido; el caso de uso limita los campos editables del cajero)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Patch("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Sales (protegido; pertenencia por cajero validada en el caso de uso)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.TicketUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Get("/:id/ticket", saleHandler.Ticket)
}
