package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/application/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	invdomain "github.com/jhoicas/grocery-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/pkg/ean"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

const (
	dateLayout          = "2006-01-02"
	DefaultExpiringDays = 7
	initialStockNote    = "stock inicial"
)

// ProductUseCase casos de uso del catálogo de productos.
// La cantidad solo cambia a través de StockMovementUseCase; aquí no hay mutador de existencias.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	txRunner     inventory.TxRunner
	stock        *inventory.StockMovementUseCase
	barcodes     ports.BarcodeGenerator  // opcional
	images       ports.BarcodeImageStore // opcional
	expiringDays int
	log          *logger.Logger
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso. barcodes e images pueden ser nil.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	txRunner inventory.TxRunner,
	stock *inventory.StockMovementUseCase,
	barcodes ports.BarcodeGenerator,
	images ports.BarcodeImageStore,
	expiringDays int,
	log *logger.Logger,
) *ProductUseCase {
	if expiringDays <= 0 {
		expiringDays = DefaultExpiringDays
	}
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		txRunner:     txRunner,
		stock:        stock,
		barcodes:     barcodes,
		images:       images,
		expiringDays: expiringDays,
		log:          log,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// Create valida y crea el producto. Si trae cantidad inicial, la entrada IN "stock inicial"
// se registra en la misma transacción que el alta. Sin código de barras, se genera uno
// después de confirmar; un fallo ahí solo se registra en el log.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	sku, err := validateSKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	barcode := strings.TrimSpace(in.Barcode)
	if barcode != "" {
		if err := ean.Validate(barcode); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	expiry, err := parseExpiry(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if in.InitialQuantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := uc.ensureCatalogRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueSKU(ctx, "", sku); err != nil {
		return nil, err
	}
	if barcode != "" {
		if existing, err := uc.productRepo.GetByBarcode(ctx, barcode); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("%w: el código de barras ya está asignado", domain.ErrDuplicate)
		}
	}

	now := uc.now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		Name:       name,
		SKU:        sku,
		Barcode:    barcode,
		Price:      in.Price,
		ExpiryDate: expiry,
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		txRepo repository.StockTransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		_, err := uc.stock.RecordStockInTx(ctx, stockRepo, txRepo, inventory.StockInCommand{
			ProductID: product.ID,
			Quantity:  in.InitialQuantity,
			ActorID:   actorID,
			Note:      initialStockNote,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", product.ID).
		Str("sku", product.SKU).
		Int("initial_quantity", in.InitialQuantity).
		Msg("producto creado")

	if product.Barcode == "" && uc.barcodes != nil {
		uc.assignBarcode(ctx, product)
	}
	return uc.GetByID(ctx, product.ID)
}

// assignBarcode genera y guarda el código del producto. Los errores no se propagan.
func (uc *ProductUseCase) assignBarcode(ctx context.Context, product *entity.Product) {
	number, locator, err := uc.barcodes.Generate(ctx, product.ID, product.Name)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("no se pudo generar el código de barras")
		return
	}
	if err := uc.productRepo.SetBarcode(ctx, product.ID, number); err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("no se pudo guardar el código de barras")
		return
	}
	product.Barcode = number
	uc.log.Debug().Str("product_id", product.ID).Str("barcode", number).Str("image", locator).Msg("código de barras generado")
}

// GetByID obtiene un producto activo con su categoría y proveedor.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := uc.toResponse(product)
	if c, err := uc.categoryRepo.GetByID(ctx, product.CategoryID); err == nil && c != nil {
		out.Category = &dto.ProductRef{ID: c.ID, Name: c.Name}
	}
	if s, err := uc.supplierRepo.GetByID(ctx, product.SupplierID); err == nil && s != nil {
		out.Supplier = &dto.ProductRef{ID: s.ID, Name: s.Name}
	}
	return &out, nil
}

// List lista productos con filtros y paginación.
// low_stock usa el umbral configurado; expiring cubre de hoy a hoy+días configurados.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	filter := repository.ProductFilter{
		CategoryID: q.CategoryID,
		SupplierID: q.SupplierID,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.LowStock {
		threshold := uc.stock.LowStockThreshold()
		filter.LowStockThreshold = &threshold
	}
	if q.Expiring {
		from := entity.CalendarDate(uc.now())
		to := from.AddDate(0, 0, uc.expiringDays)
		filter.ExpiringFrom, filter.ExpiringTo = &from, &to
	}
	list, total, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: uc.toResponses(list),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update aplica los campos presentes. Una petición con quantity se rechaza.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Quantity != nil {
		return nil, fmt.Errorf("%w: la cantidad solo cambia con entradas y salidas de stock", domain.ErrInvalidInput)
	}
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if in.SKU != nil {
		sku, err := validateSKU(*in.SKU)
		if err != nil {
			return nil, err
		}
		if err := uc.ensureUniqueSKU(ctx, product.ID, sku); err != nil {
			return nil, err
		}
		product.SKU = sku
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		product.Price = *in.Price
	}
	if in.ExpiryDate != nil {
		expiry, err := parseExpiry(*in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		product.ExpiryDate = expiry
	}
	categoryID, supplierID := product.CategoryID, product.SupplierID
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		supplierID = *in.SupplierID
	}
	if categoryID != product.CategoryID || supplierID != product.SupplierID {
		if err := uc.ensureCatalogRefs(ctx, categoryID, supplierID); err != nil {
			return nil, err
		}
		product.CategoryID, product.SupplierID = categoryID, supplierID
	}
	product.UpdatedAt = uc.now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, product.ID)
}

// Delete archiva el producto y borra su imagen de código de barras. El libro se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.productRepo.Archive(ctx, id, uc.now()); err != nil {
		return err
	}
	if product.Barcode != "" && uc.images != nil {
		if err := uc.images.Remove(ctx, product.Barcode); err != nil {
			uc.log.Warn().Err(err).Str("product_id", id).Msg("no se pudo borrar la imagen del código de barras")
		}
	}
	uc.log.Info().Str("product_id", id).Str("sku", product.SKU).Msg("producto archivado")
	return nil
}

// Expiring productos que vencen entre hoy y hoy+days, por cantidad ascendente.
func (uc *ProductUseCase) Expiring(ctx context.Context, days int) ([]dto.ProductResponse, error) {
	if days <= 0 {
		days = DefaultExpiringDays
	}
	from := entity.CalendarDate(uc.now())
	list, err := uc.productRepo.ListExpiring(ctx, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list), nil
}

// Expired productos con vencimiento anterior a hoy. Los que vencen hoy siguen vigentes.
func (uc *ProductUseCase) Expired(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.ListExpired(ctx, entity.CalendarDate(uc.now()))
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list), nil
}

// LowStock productos con cantidad <= threshold. nil usa el umbral configurado.
func (uc *ProductUseCase) LowStock(ctx context.Context, threshold *int) ([]dto.ProductResponse, error) {
	limit := uc.stock.LowStockThreshold()
	if threshold != nil {
		if *threshold < 0 {
			return nil, fmt.Errorf("%w: el umbral no puede ser negativo", domain.ErrInvalidInput)
		}
		limit = *threshold
	}
	list, err := uc.productRepo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list), nil
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	return product, nil
}

func (uc *ProductUseCase) ensureCatalogRefs(ctx context.Context, categoryID, supplierID string) error {
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: categoría", domain.ErrNotFound)
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("%w: proveedor", domain.ErrNotFound)
	}
	return nil
}

func (uc *ProductUseCase) ensureUniqueSKU(ctx context.Context, id, sku string) error {
	existing, err := uc.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return fmt.Errorf("%w: ya existe un producto con SKU %s", domain.ErrDuplicate, sku)
	}
	return nil
}

func (uc *ProductUseCase) toResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, uc.toResponse(p))
	}
	return items
}

// toResponse calcula días para vencer, vencido y stock bajo con la fecha actual y el umbral configurado.
func (uc *ProductUseCase) toResponse(p *entity.Product) dto.ProductResponse {
	now := uc.now()
	out := dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Barcode:    optional(p.Barcode),
		Price:      p.Price,
		Quantity:   p.Quantity(),
		IsExpired:  p.IsExpired(now),
		IsLowStock: p.IsLowStock(uc.stock.LowStockThreshold()),
		CategoryID: p.CategoryID,
		SupplierID: p.SupplierID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.ExpiryDate != nil {
		date := p.ExpiryDate.Format(dateLayout)
		out.ExpiryDate = &date
	}
	if days, ok := p.DaysUntilExpiry(now); ok {
		out.DaysLeftToExpire = &days
	}
	return out
}

func validateName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("%w: el nombre es obligatorio (máx. 100 caracteres)", domain.ErrInvalidInput)
	}
	return nil
}

func validateSKU(raw string) (string, error) {
	sku := invdomain.NormalizeSKU(raw)
	if sku == "" || utf8.RuneCountInString(sku) > 50 {
		return "", fmt.Errorf("%w: el SKU es obligatorio (máx. 50 caracteres)", domain.ErrInvalidInput)
	}
	return sku, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// parseExpiry interpreta YYYY-MM-DD; vacío significa sin vencimiento.
func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: expiry_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return &t, nil
}
