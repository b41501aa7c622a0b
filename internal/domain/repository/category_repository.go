package repository

import "github.com/tu-usuario/pos-backend/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para categorías (DIP).
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	Update(category *entity.Category) error
	List() ([]*entity.Category, error)
	Delete(id string) error
}
