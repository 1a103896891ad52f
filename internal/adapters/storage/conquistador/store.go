package conquistador

import (
	"context"

	domain "clubes/internal/domain/conquistador"
)

// Store persists Conquistador state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Conquistador, error)
	ListByClase(ctx context.Context, claseNombre string, clubID int64) ([]domain.Conquistador, error)
	Create(ctx context.Context, value domain.Conquistador) (domain.Conquistador, error)
	UpdateNombre(ctx context.Context, id int64, nombre string) error
	Delete(ctx context.Context, id int64) error
}
