package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	txRunner CatalogTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, txRunner CatalogTxRunner, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, txRunner: txRunner, log: log, now: time.Now}
}

// Create crea una categoría con nombre único.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name, err := categoryName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing, err := uc.repo.GetByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, name)
	}
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List lista las categorías activas por nombre con su conteo de productos.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return items, nil
}

// Update cambia nombre y descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría", domain.ErrNotFound)
	}
	name, err := categoryName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing, err := uc.repo.GetByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != id {
		return nil, fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, name)
	}
	category.Name = name
	category.Description = strings.TrimSpace(in.Description)
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete archiva la categoría y sus productos en una sola transacción. El libro se conserva.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	at := uc.now()
	err := uc.txRunner.RunCatalog(ctx, func(
		categoryRepo repository.CategoryRepository,
		_ repository.SupplierRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.ArchiveByCategory(ctx, id, at); err != nil {
			return err
		}
		return categoryRepo.Archive(ctx, id, at)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("category_id", id).Msg("categoría archivada con sus productos")
	return nil
}

func categoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return "", fmt.Errorf("%w: el nombre es obligatorio (máx. 100 caracteres)", domain.ErrInvalidInput)
	}
	return name, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  optional(c.Description),
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
