package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/pkg/ean"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// BarcodeUseCase búsqueda por código, imágenes y etiquetas de productos.
type BarcodeUseCase struct {
	products  *ProductUseCase
	generator ports.BarcodeGenerator
	images    ports.BarcodeImageStore
	labels    ports.LabelRenderer
	log       *logger.Logger
}

// NewBarcodeUseCase construye el caso de uso.
func NewBarcodeUseCase(
	products *ProductUseCase,
	generator ports.BarcodeGenerator,
	images ports.BarcodeImageStore,
	labels ports.LabelRenderer,
	log *logger.Logger,
) *BarcodeUseCase {
	return &BarcodeUseCase{products: products, generator: generator, images: images, labels: labels, log: log}
}

// Search busca un producto activo por su código de barras.
func (uc *BarcodeUseCase) Search(ctx context.Context, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if err := ean.Validate(code); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	product, err := uc.products.productRepo.GetByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: no hay producto con código %s", domain.ErrNotFound, code)
	}
	return uc.products.GetByID(ctx, product.ID)
}

// Image devuelve el código del producto y la URL de su imagen, dibujándola si falta.
func (uc *BarcodeUseCase) Image(ctx context.Context, productID string) (*dto.BarcodeResponse, error) {
	product, err := uc.products.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Barcode == "" {
		return nil, fmt.Errorf("%w: el producto no tiene código de barras", domain.ErrNotFound)
	}
	exists, err := uc.images.Exists(ctx, product.Barcode)
	if err != nil {
		return nil, err
	}
	url := uc.images.URL(product.Barcode)
	if !exists {
		if url, err = uc.images.Save(ctx, product.Barcode); err != nil {
			return nil, err
		}
	}
	return &dto.BarcodeResponse{ProductID: product.ID, Barcode: product.Barcode, ImageURL: url}, nil
}

// Generate asigna un código al producto si no tiene y (re)dibuja su imagen.
func (uc *BarcodeUseCase) Generate(ctx context.Context, productID string) (*dto.BarcodeResponse, error) {
	product, err := uc.products.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	url, err := uc.ensureBarcode(ctx, product)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("barcode", product.Barcode).Msg("código de barras regenerado")
	return &dto.BarcodeResponse{ProductID: product.ID, Barcode: product.Barcode, ImageURL: url}, nil
}

// Label genera la etiqueta PDF del producto y un nombre de archivo sugerido.
func (uc *BarcodeUseCase) Label(ctx context.Context, productID string) ([]byte, string, error) {
	product, err := uc.products.load(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	if product.Barcode == "" {
		if _, err := uc.ensureBarcode(ctx, product); err != nil {
			return nil, "", err
		}
	}
	data := ports.LabelData{
		Name:    product.Name,
		SKU:     product.SKU,
		Barcode: product.Barcode,
		Price:   product.Price,
	}
	if product.ExpiryDate != nil {
		data.ExpiryDate = product.ExpiryDate.Format(dateLayout)
	}
	pdf, err := uc.labels.RenderLabel(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, "label_" + product.SKU + ".pdf", nil
}

func (uc *BarcodeUseCase) ensureBarcode(ctx context.Context, product *entity.Product) (string, error) {
	if product.Barcode != "" {
		return uc.images.Save(ctx, product.Barcode)
	}
	number, url, err := uc.generator.Generate(ctx, product.ID, product.Name)
	if err != nil {
		return "", err
	}
	if err := uc.products.productRepo.SetBarcode(ctx, product.ID, number); err != nil {
		return "", err
	}
	product.Barcode = number
	return url, nil
}
