package progreso

import (
	"context"

	domain "clubes/internal/domain/progreso"
)

// Store persists ProgressEntry state.
type Store interface {
	ListByConquistador(ctx context.Context, conquistadorID int64) ([]domain.Record, error)
	Upsert(ctx context.Context, value domain.Record) error
}
