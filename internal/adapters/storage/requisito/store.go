package requisito

import (
	"context"

	domain "clubes/internal/domain/requisito"
)

// Store persists Requirement state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Requirement, error)
	ListByClase(ctx context.Context, claseID int64) ([]domain.Requirement, error)
	Save(ctx context.Context, value domain.Requirement) (int64, error)
	CountByClase(ctx context.Context, claseID int64) (int, error)
}
