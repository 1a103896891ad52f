package projections

import (
	"context"
	"errors"

	domainClase "clubes/internal/domain/clase"
	domainClub "clubes/internal/domain/club"
	domainConquistador "clubes/internal/domain/conquistador"
	domainProgreso "clubes/internal/domain/progreso"
	domainRequisito "clubes/internal/domain/requisito"
)

// ErrNotVisible is returned when the viewer may not read data of the owning club.
var ErrNotVisible = errors.New("no tienes acceso a los datos de este club")

// ClubStore interface for club queries.
type ClubStore interface {
	GetByID(ctx context.Context, id int64) (domainClub.Club, error)
	List(ctx context.Context) ([]domainClub.Club, error)
}

// ClaseStore interface for class queries.
type ClaseStore interface {
	ListForClub(ctx context.Context, clubID int64) ([]domainClase.Clase, error)
}

// RequisitoStore interface for catalog queries.
type RequisitoStore interface {
	ListByClase(ctx context.Context, claseID int64) ([]domainRequisito.Requirement, error)
}

// ConquistadorStore interface for roster queries.
type ConquistadorStore interface {
	GetByID(ctx context.Context, id int64) (domainConquistador.Conquistador, error)
	ListByClase(ctx context.Context, claseNombre string, clubID int64) ([]domainConquistador.Conquistador, error)
}

// ProgresoStore interface for progress queries.
type ProgresoStore interface {
	ListByConquistador(ctx context.Context, conquistadorID int64) ([]domainProgreso.Record, error)
}

// ClubFilter reports whether the viewer may read data of a club. A nil filter allows every club.
type ClubFilter func(clubID int64) bool

func (f ClubFilter) allows(clubID int64) bool {
	return f == nil || f(clubID)
}
