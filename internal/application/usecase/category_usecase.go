package usecase

import (
	"github.com/google/uuid"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías del catálogo.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(name, description string) (*entity.Category, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
	}
	if err := uc.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update actualiza nombre y descripción.
func (uc *CategoryUseCase) Update(id, name, description string) (*entity.Category, error) {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if name != "" {
		category.Name = name
	}
	category.Description = description
	if err := uc.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// List lista todas las categorías.
func (uc *CategoryUseCase) List() ([]*entity.Category, error) {
	return uc.repo.List()
}

// Delete elimina una categoría.
func (uc *CategoryUseCase) Delete(id string) error {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
