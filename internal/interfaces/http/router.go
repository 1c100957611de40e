package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/jhoicas/grocery-inventory-api/internal/application/auth"
	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/application/usecase"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	SupplierUC *usecase.SupplierUseCase
	StockUC    *inventory.StockMovementUseCase
	ReportUC   *inventory.MovementReportUseCase
	BarcodeUC  *usecase.BarcodeUseCase

	StaticFs afero.Fs // imágenes de códigos de barras, se sirven en /static
	Health   Pinger
	Log      *logger.Logger

	JWTSecret      string
	AppName        string
	AllowedOrigins string
	SwaggerFile    string // vacío = sin /docs
}

// NewApp arma la aplicación Fiber con middlewares, estáticos, health y rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(deps.Log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(RequestLogger(deps.Log))

	// Swagger UI: http://localhost:<port>/docs
	if deps.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.SwaggerFile,
			Path:     "docs",
			Title:    "Grocery Inventory API",
		}))
	}

	if deps.StaticFs != nil {
		app.Use("/static", filesystem.New(filesystem.Config{
			Root:   afero.NewHttpFs(deps.StaticFs),
			MaxAge: 3600,
		}))
	}

	health := NewHealthHandler(deps.AppName, deps.Health, deps.Log)
	app.Get("/health", health.Check)
	app.Get("/api/health", health.Check)

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público salvo perfil, logout y usuarios)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protectedAuth := protected.Group("/auth")
	protectedAuth.Get("/profile", authHandler.Profile)
	protectedAuth.Post("/logout", authHandler.Logout)
	protectedAuth.Get("/users", adminOnly, authHandler.ListUsers)

	// Products; las rutas fijas van antes de /:id
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/expiring", productHandler.Expiring)
	products.Get("/expired", productHandler.Expired)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Log)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.ProductUC, deps.Log)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Get("/:id/products", supplierHandler.Products)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Libro de movimientos
	txHandler := NewTransactionHandler(deps.StockUC, deps.ReportUC, deps.Log)
	transactions := protected.Group("/transactions")
	transactions.Get("/", txHandler.List)
	transactions.Get("/stats", txHandler.Stats)
	transactions.Post("/stock-in", txHandler.StockIn)
	transactions.Post("/stock-out", txHandler.StockOut)
	transactions.Get("/:id", txHandler.GetByID)

	barcodeHandler := NewBarcodeHandler(deps.BarcodeUC, deps.Log)
	barcodes := protected.Group("/barcode")
	barcodes.Get("/search/:barcode", barcodeHandler.Search)
	barcodes.Get("/image/:product_id", barcodeHandler.Image)
	barcodes.Get("/label/:product_id", barcodeHandler.Label)
	barcodes.Post("/generate/:product_id", barcodeHandler.Generate)
}
