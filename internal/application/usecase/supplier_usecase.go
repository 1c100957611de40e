package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/jhoicas/grocery-inventory-api/internal/application/dto"
	"github.com/jhoicas/grocery-inventory-api/internal/domain"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/entity"
	"github.com/jhoicas/grocery-inventory-api/internal/domain/repository"
	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

const maxContactLength = 15

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	txRunner CatalogTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, txRunner CatalogTxRunner, log *logger.Logger) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, txRunner: txRunner, log: log, now: time.Now}
}

// Create crea un proveedor. Nombre y contacto son obligatorios; el nombre es único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Contact:   strings.TrimSpace(in.Contact),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: uc.now(),
	}
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, supplier.ID, supplier.Name); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor activo.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor", domain.ErrNotFound)
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores por nombre, con búsqueda parcial y paginación.
func (uc *SupplierUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update edita los campos presentes en la petición.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor", domain.ErrNotFound)
	}
	if in.Name != nil {
		supplier.Name = strings.TrimSpace(*in.Name)
	}
	if in.Contact != nil {
		supplier.Contact = strings.TrimSpace(*in.Contact)
	}
	if in.Email != nil {
		supplier.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		supplier.Address = strings.TrimSpace(*in.Address)
	}
	if err := validateSupplier(supplier); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, supplier.ID, supplier.Name); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Delete archiva el proveedor y sus productos en una sola transacción.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	at := uc.now()
	err := uc.txRunner.RunCatalog(ctx, func(
		_ repository.CategoryRepository,
		supplierRepo repository.SupplierRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.ArchiveBySupplier(ctx, id, at); err != nil {
			return err
		}
		return supplierRepo.Archive(ctx, id, at)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("supplier_id", id).Msg("proveedor archivado con sus productos")
	return nil
}

func (uc *SupplierUseCase) ensureUniqueName(ctx context.Context, id, name string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return fmt.Errorf("%w: ya existe el proveedor %q", domain.ErrDuplicate, name)
	}
	return nil
}

func validateSupplier(s *entity.Supplier) error {
	if s.Name == "" || utf8.RuneCountInString(s.Name) > 100 {
		return fmt.Errorf("%w: el nombre es obligatorio (máx. 100 caracteres)", domain.ErrInvalidInput)
	}
	if s.Contact == "" || utf8.RuneCountInString(s.Contact) > maxContactLength {
		return fmt.Errorf("%w: el contacto es obligatorio (máx. %d caracteres)", domain.ErrInvalidInput, maxContactLength)
	}
	if s.Email != "" && !govalidator.IsEmail(s.Email) {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:           s.ID,
		Name:         s.Name,
		Contact:      s.Contact,
		Email:        optional(s.Email),
		Address:      optional(s.Address),
		ProductCount: s.ProductCount,
		CreatedAt:    s.CreatedAt,
	}
}
