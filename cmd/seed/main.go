// seed crea el usuario administrador y un catálogo de ejemplo usando los casos de uso de la API.
//
// Uso: go run ./cmd/seed [-admin-password secreto] [-catalog productos.csv] [-latin1]
//
// El CSV opcional tiene encabezado: name,sku,barcode,price,expiry_date,category,supplier,contact,quantity.
// Con -latin1 se decodifica como ISO-8859-1 (exportaciones de cajas registradoras antiguas).
// Es idempotente: lo que ya existe (username, nombre o SKU) se omite.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/grocery-inventory-api/internal/application/auth"
	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/application/usecase"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/grocery-inventory-api/pkg/config"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

type catalogRow struct {
	Name, SKU, Barcode, ExpiryDate string
	Price                          decimal.Decimal
	Category, Supplier, Contact    string
	Quantity                       int
}

var demo = []catalogRow{
	{Name: "Leche entera 1L", SKU: "LEC-001", Price: decimal.NewFromInt(4200), Category: "Lácteos", Supplier: "Alquería", Contact: "6014235000", Quantity: 24},
	{Name: "Queso campesino 500g", SKU: "QUE-001", Price: decimal.NewFromInt(11900), Category: "Lácteos", Supplier: "Alquería", Contact: "6014235000", Quantity: 8},
	{Name: "Arroz 500g", SKU: "ARR-500", Price: decimal.NewFromInt(3200), Category: "Granos", Supplier: "Diana", Contact: "6015551234", Quantity: 40},
	{Name: "Lenteja 500g", SKU: "LEN-500", Price: decimal.NewFromInt(4500), Category: "Granos", Supplier: "Diana", Contact: "6015551234", Quantity: 6},
	{Name: "Pan tajado", SKU: "PAN-001", Price: decimal.NewFromInt(6800), Category: "Panadería", Supplier: "Bimbo", Contact: "018000522222", Quantity: 12},
}

func main() {
	adminUser := flag.String("admin-user", "admin", "username del administrador")
	adminEmail := flag.String("admin-email", "admin@tienda.local", "email del administrador")
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña del administrador")
	catalogPath := flag.String("catalog", "", "CSV de productos (por defecto el catálogo de ejemplo)")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if *adminPassword == "" {
		log.Fatal().Msg("definir -admin-password o SEED_ADMIN_PASSWORD")
	}

	rows := demo
	if *catalogPath != "" {
		rows, err = readCatalog(*catalogPath, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("file", *catalogPath).Msg("leer catálogo")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	runner := postgres.NewTxRunner(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stock := inventory.NewStockMovementUseCase(runner, users, nil, cfg.Inventory.LowStockThreshold, log)
	products := usecase.NewProductUseCase(postgres.NewProductRepository(pool), categoryRepo, supplierRepo,
		runner, stock, nil, nil, cfg.Inventory.ExpiringDays, log)
	categories := usecase.NewCategoryUseCase(categoryRepo, runner, log)
	suppliers := usecase.NewSupplierUseCase(supplierRepo, runner, log)

	admin, err := users.GetByUsername(ctx, *adminUser)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar administrador")
	}
	if admin == nil {
		created, err := auth.NewAuthUseCase(users, auth.JWTConfig{}).Register(ctx, dto.RegisterRequest{
			Username: *adminUser, Email: *adminEmail, Password: *adminPassword, Role: entity.RoleAdmin,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("user_id", created.ID).Msg("administrador creado")
		admin = &entity.User{ID: created.ID}
	}

	categoryIDs := map[string]string{}
	supplierIDs := map[string]string{}
	var created, skipped int
	for _, r := range rows {
		catID, err := ensureCategory(ctx, categories, categoryIDs, r.Category)
		if err != nil {
			log.Fatal().Err(err).Str("category", r.Category).Msg("crear categoría")
		}
		supID, err := ensureSupplier(ctx, suppliers, supplierIDs, r.Supplier, r.Contact)
		if err != nil {
			log.Fatal().Err(err).Str("supplier", r.Supplier).Msg("crear proveedor")
		}
		_, err = products.Create(ctx, admin.ID, dto.CreateProductRequest{
			Name: r.Name, SKU: r.SKU, Barcode: r.Barcode, Price: r.Price, ExpiryDate: r.ExpiryDate,
			CategoryID: catID, SupplierID: supID, InitialQuantity: r.Quantity,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		case err != nil:
			log.Fatal().Err(err).Str("sku", r.SKU).Msg("crear producto")
		default:
			created++
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}

func ensureCategory(ctx context.Context, uc *usecase.CategoryUseCase, cache map[string]string, name string) (string, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	list, err := uc.List(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range list {
		cache[c.Name] = c.ID
	}
	if id, ok := cache[name]; ok {
		return id, nil
	}
	c, err := uc.Create(ctx, dto.CategoryRequest{Name: name})
	if err != nil {
		return "", err
	}
	cache[name] = c.ID
	return c.ID, nil
}

func ensureSupplier(ctx context.Context, uc *usecase.SupplierUseCase, cache map[string]string, name, contact string) (string, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	list, err := uc.List(ctx, name, dto.PageRequest{Limit: 100})
	if err != nil {
		return "", err
	}
	for _, s := range list.Items {
		if strings.EqualFold(s.Name, name) {
			cache[name] = s.ID
			return s.ID, nil
		}
	}
	s, err := uc.Create(ctx, dto.SupplierRequest{Name: name, Contact: contact})
	if err != nil {
		return "", err
	}
	cache[name] = s.ID
	return s.ID, nil
}

func readCatalog(path string, latin1 bool) ([]catalogRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("catálogo vacío")
	}

	head := map[string]int{}
	for i, h := range records[0] {
		head[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"name", "sku", "price", "category", "supplier", "contact"} {
		if _, ok := head[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	get := func(rec []string, col string) string {
		if i, ok := head[col]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	rows := make([]catalogRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		price, err := decimal.NewFromString(get(rec, "price"))
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio inválido: %w", n+2, err)
		}
		qty := 0
		if raw := get(rec, "quantity"); raw != "" {
			if qty, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("fila %d: cantidad inválida: %w", n+2, err)
			}
		}
		rows = append(rows, catalogRow{
			Name: get(rec, "name"), SKU: get(rec, "sku"), Barcode: get(rec, "barcode"),
			ExpiryDate: get(rec, "expiry_date"), Price: price, Category: get(rec, "category"),
			Supplier: get(rec, "supplier"), Contact: get(rec, "contact"), Quantity: qty,
		})
	}
	return rows, nil
}
