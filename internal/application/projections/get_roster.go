package projections

import (
	"context"
	"strings"

	domainConquistador "clubes/internal/domain/conquistador"
)

// RosterQuery carries query parameters.
type RosterQuery struct {
	ClaseNombre string
	ClubID      int64
	Visible     ClubFilter
}

// RosterDeps holds dependencies for QueryRoster.
type RosterDeps struct {
	ConquistadorStore ConquistadorStore
}

// QueryRoster lists the members of a class within one club, ordered by name.
// An empty class name yields an empty roster.
func QueryRoster(ctx context.Context, query RosterQuery, deps RosterDeps) ([]domainConquistador.Conquistador, error) {
	if !query.Visible.allows(query.ClubID) {
		return nil, ErrNotVisible
	}
	nombre := strings.TrimSpace(query.ClaseNombre)
	if nombre == "" {
		return []domainConquistador.Conquistador{}, nil
	}
	members, err := deps.ConquistadorStore.ListByClase(ctx, nombre, query.ClubID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []domainConquistador.Conquistador{}
	}
	return members, nil
}
