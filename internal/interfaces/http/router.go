package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Bobo844/Api-inventor-management/internal/application/auth"
	"github.com/Bobo844/Api-inventor-management/internal/application/orders"
	"github.com/Bobo844/Api-inventor-management/internal/application/stock"
	"github.com/Bobo844/Api-inventor-management/internal/application/usecase"
	"github.com/Bobo844/Api-inventor-management/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	CategoryUC *usecase.CategoryUseCase
	StoreUC    *usecase.StoreUseCase
	UserUC     *usecase.UserUseCase
	MovementUC *stock.MovementUseCase
	OrderUC    *orders.OrderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manager := RequireRole(entity.RoleAdmin, entity.RoleManager)
	admin := RequireRole(entity.RoleAdmin)

	// Products (protegido; mutaciones solo ADMIN/MANAGER)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", manager, productHandler.Create)
	products.Put("/:id", manager, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", manager, supplierHandler.Create)
	suppliers.Put("/:id", manager, supplierHandler.Update)
	suppliers.Delete("/:id", admin, supplierHandler.Delete)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", manager, categoryHandler.Create)
	categories.Put("/:id", manager, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/", manager, storeHandler.Create)
	stores.Put("/:id", manager, storeHandler.Update)
	stores.Delete("/:id", admin, storeHandler.Delete)

	// Stock movements (protegido; registrar solo ADMIN/MANAGER)
	movements := protected.Group("/stock-movements")
	movementHandler := NewStockMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/stats", movementHandler.Stats)
	movements.Get("/product/:productId", movementHandler.ProductHistory)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/", manager, movementHandler.Register)

	// Orders (protegido; transiciones solo ADMIN/MANAGER)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/", manager, orderHandler.Create)
	ordersGroup.Patch("/:id/status", manager, orderHandler.UpdateStatus)
	ordersGroup.Post("/:id/cancel", manager, orderHandler.Cancel)

	// Users (solo ADMIN)
	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
