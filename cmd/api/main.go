package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/jhoicas/grocery-inventory-api/internal/application/auth"
	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/application/usecase"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/alerts"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/barcode"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/grocery-inventory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/grocery-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/grocery-inventory-api/pkg/config"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y runners de una implementación de persistencia.
type storage struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	categories   repository.CategoryRepository
	suppliers    repository.SupplierRepository
	transactions repository.StockTransactionRepository
	txRunner     inventory.TxRunner
	catalogTx    usecase.CatalogTxRunner
	health       httpRouter.Pinger
	close        func()
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
		Str("storage", cfg.App.StorageDriver).
		Str("alerts", cfg.Alerts.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	dispatcher := alerts.NewDispatcher(alertSink(cfg.Alerts, log), cfg.Alerts.Buffer, log)

	// Imágenes de códigos de barras bajo BARCODE_DIR, publicadas en /static
	staticFs := afero.NewBasePathFs(afero.NewOsFs(), cfg.Barcode.Dir)
	renderer := barcode.NewPNGRenderer()
	images := barcode.NewImageStore(staticFs, cfg.Barcode.BaseURL, renderer)
	generator := barcode.NewGenerator(images, log.Component("barcode"))
	labels := infrapdf.NewLabelGenerator(renderer)

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})
	stockUC := inventory.NewStockMovementUseCase(store.txRunner, store.users, dispatcher,
		cfg.Inventory.LowStockThreshold, log.Component("stock"))
	reportUC := inventory.NewMovementReportUseCase(store.transactions)
	productUC := usecase.NewProductUseCase(store.products, store.categories, store.suppliers,
		store.txRunner, stockUC, generator, images, cfg.Inventory.ExpiringDays, log.Component("catalog"))
	categoryUC := usecase.NewCategoryUseCase(store.categories, store.catalogTx, log.Component("catalog"))
	supplierUC := usecase.NewSupplierUseCase(store.suppliers, store.catalogTx, log.Component("catalog"))
	barcodeUC := usecase.NewBarcodeUseCase(productUC, generator, images, labels, log.Component("barcode"))

	deps := httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		SupplierUC:     supplierUC,
		StockUC:        stockUC,
		ReportUC:       reportUC,
		BarcodeUC:      barcodeUC,
		StaticFs:       staticFs,
		Health:         store.health,
		Log:            log,
		JWTSecret:      cfg.JWT.Secret,
		AppName:        cfg.App.Name,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}
	// Swagger UI solo si el documento existe (el middleware falla sin él)
	if _, err := os.Stat(swaggerFile); err == nil {
		deps.SwaggerFile = swaggerFile
	} else {
		log.Warn().Str("file", swaggerFile).Msg("documentación swagger no encontrada, /docs deshabilitado")
	}
	app := httpRouter.NewApp(deps)

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
	if err := dispatcher.Close(); err != nil {
		log.Error().Err(err).Msg("cierre del despachador de avisos")
	}
	if n := dispatcher.Dropped(); n > 0 {
		log.Warn().Int64("dropped", n).Msg("avisos de stock bajo descartados")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.App.StorageDriver == "memory" {
		s := memory.NewStore()
		runner := memory.NewTxRunner(s)
		return &storage{
			users:        memory.NewUserRepository(s),
			products:     memory.NewProductRepository(s),
			categories:   memory.NewCategoryRepository(s),
			suppliers:    memory.NewSupplierRepository(s),
			transactions: memory.NewStockTransactionRepository(s),
			txRunner:     runner,
			catalogTx:    runner,
			health:       s,
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	runner := postgres.NewTxRunner(pool)
	return &storage{
		users:        postgres.NewUserRepository(pool),
		products:     postgres.NewProductRepository(pool),
		categories:   postgres.NewCategoryRepository(pool),
		suppliers:    postgres.NewSupplierRepository(pool),
		transactions: postgres.NewStockTransactionRepository(pool),
		txRunner:     runner,
		catalogTx:    runner,
		health:       pool,
		close:        pool.Close,
	}, nil
}

func alertSink(cfg config.AlertsConfig, log *logger.Logger) ports.AlertSink {
	switch cfg.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return alerts.NewRedisNotifier(client, cfg.RedisChannel)
	case "kafka":
		return alerts.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return alerts.NewLogNotifier(log.Component("alerts"))
	}
}
