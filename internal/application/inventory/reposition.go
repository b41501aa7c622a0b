package inventory

import (
	"context"
	"sort"

	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// RepositionUseCase señal derivada de solo lectura: productos cuyo stock está
// en o bajo su umbral de reorden. No cachea; siempre refleja el último stock
// confirmado.
type RepositionUseCase struct {
	productRepo repository.ProductRepository
}

// NewRepositionUseCase construye el caso de uso.
func NewRepositionUseCase(productRepo repository.ProductRepository) *RepositionUseCase {
	return &RepositionUseCase{productRepo: productRepo}
}

// ListLowStock devuelve los productos con stock <= min_stock.
func (uc *RepositionUseCase) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListLowStock()
}

// Suggestions devuelve la lista de reposición sugerida: cantidad a pedir para
// volver al doble del umbral, ordenada por déficit (1 = más urgente).
func (uc *RepositionUseCase) Suggestions(ctx context.Context) ([]dto.RepositionSuggestionDTO, error) {
	products, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.RepositionSuggestionDTO, 0, len(products))
	for _, p := range products {
		suggested := 2*p.MinStock - p.Stock
		if suggested < 1 {
			suggested = 1
		}
		suggestions = append(suggestions, dto.RepositionSuggestionDTO{
			ProductID:    p.ID,
			Barcode:      p.Barcode,
			Name:         p.Name,
			Stock:        p.Stock,
			MinStock:     p.MinStock,
			SuggestedQty: suggested,
		})
	}
	// Mayor déficit absoluto primero; empate por nombre para orden estable.
	sort.SliceStable(suggestions, func(i, j int) bool {
		defI := suggestions[i].MinStock - suggestions[i].Stock
		defJ := suggestions[j].MinStock - suggestions[j].Stock
		if defI != defJ {
			return defI > defJ
		}
		return suggestions[i].Name < suggestions[j].Name
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
