package account

import (
	"context"

	domain "clubes/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByUsuario(ctx context.Context, usuario string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Rol    string
	ClubID int64
}
