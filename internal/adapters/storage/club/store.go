package club

import (
	"context"

	domain "clubes/internal/domain/club"
)

// Store persists Club state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Club, error)
	GetByNombre(ctx context.Context, nombre string) (domain.Club, error)
	List(ctx context.Context) ([]domain.Club, error)
	Save(ctx context.Context, value domain.Club) (int64, error)
}
