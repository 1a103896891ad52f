package clase

import (
	"context"

	domain "clubes/internal/domain/clase"
)

// Store persists Clase state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Clase, error)
	GetByNombre(ctx context.Context, nombre string, clubID int64) (domain.Clase, error)
	ListForClub(ctx context.Context, clubID int64) ([]domain.Clase, error)
	Save(ctx context.Context, value domain.Clase) (int64, error)
}
