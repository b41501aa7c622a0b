package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo. Stock NO se maneja aquí:
// toda mutación de stock pasa por el ledger de inventario.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con stock 0. El stock inicial se carga después con
// un movimiento de ajuste o entrada.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		existing, _ := uc.repo.GetByBarcode(in.Barcode)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	minStock := entity.DefaultMinStock
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		minStock = *in.MinStock
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Barcode:     in.Barcode,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       0,
		MinStock:    minStock,
		CategoryID:  in.CategoryID,
		Status:      entity.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Stock no es modificable por esta vía.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.Status != nil {
		if *in.Status != entity.ProductStatusActive && *in.Status != entity.ProductStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda por nombre/código y filtro por estado.
func (uc *ProductUseCase) List(filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Delete elimina un producto del catálogo.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		CategoryID:  p.CategoryID,
		Status:      p.Status,
		LowStock:    p.NeedsRestock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
