package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-backend/internal/application/dto"
	"github.com/tu-usuario/pos-backend/internal/domain"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/internal/domain/repository"
)

// MovementLogUseCase consulta de solo lectura sobre el historial de
// movimientos. No muta nada: es una proyección del registro append-only.
type MovementLogUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewMovementLogUseCase construye el caso de uso.
func NewMovementLogUseCase(movRepo repository.StockMovementRepository) *MovementLogUseCase {
	return &MovementLogUseCase{movRepo: movRepo}
}

// MovementQuery filtros de consulta del historial.
type MovementQuery struct {
	From      *time.Time
	To        *time.Time
	Type      string
	ProductID string
	Limit     int
	Offset    int
}

// Query devuelve movimientos ordenados por fecha descendente.
func (uc *MovementLogUseCase) Query(ctx context.Context, q MovementQuery) (*dto.MovementListResponse, error) {
	if q.Type != "" && !entity.IsValidMovementType(q.Type) {
		return nil, domain.ErrInvalidInput
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	list, err := uc.movRepo.List(repository.MovementFilter{
		From:      q.From,
		To:        q.To,
		Type:      q.Type,
		ProductID: q.ProductID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Limit: q.Limit, Offset: q.Offset}, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		UserID:         m.UserID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		StockBefore:    m.StockBefore,
		StockAfter:     m.StockAfter,
		Date:           m.Date,
		Description:    m.Description,
		DocumentNumber: m.DocumentNumber,
	}
}
