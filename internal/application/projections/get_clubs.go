package projections

import (
	"context"
	"fmt"

	domainClase "clubes/internal/domain/clase"
	domainClub "clubes/internal/domain/club"
)

// ClubsDeps holds dependencies for club and class queries.
type ClubsDeps struct {
	ClubStore  ClubStore
	ClaseStore ClaseStore
}

// ClubView is a club as listed on the district dashboard.
type ClubView struct {
	domainClub.Club
	DisplayName string `json:"display_name"`
}

// DisplayName returns the club name, or "Club <id>" when it has none.
func DisplayName(c domainClub.Club) string {
	if c.Nombre != "" {
		return c.Nombre
	}
	return fmt.Sprintf("Club %d", c.ID)
}

// QueryClubs lists every club ordered by name.
func QueryClubs(ctx context.Context, deps ClubsDeps) ([]ClubView, error) {
	clubs, err := deps.ClubStore.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ClubView, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, ClubView{Club: c, DisplayName: DisplayName(c)})
	}
	return out, nil
}

// ClubQuery carries query parameters.
type ClubQuery struct {
	ClubID  int64
	Visible ClubFilter
}

// QueryClub returns one club.
func QueryClub(ctx context.Context, query ClubQuery, deps ClubsDeps) (ClubView, error) {
	if !query.Visible.allows(query.ClubID) {
		return ClubView{}, ErrNotVisible
	}
	c, err := deps.ClubStore.GetByID(ctx, query.ClubID)
	if err != nil {
		return ClubView{}, err
	}
	return ClubView{Club: c, DisplayName: DisplayName(c)}, nil
}

// ClasesQuery carries query parameters.
type ClasesQuery struct {
	ClubID  int64
	Visible ClubFilter
}

// QueryClases lists the classes a club can use: the shared catalog plus its own.
// A zero ClubID lists only the shared catalog.
func QueryClases(ctx context.Context, query ClasesQuery, deps ClubsDeps) ([]domainClase.Clase, error) {
	if query.ClubID != 0 && !query.Visible.allows(query.ClubID) {
		return nil, ErrNotVisible
	}
	clases, err := deps.ClaseStore.ListForClub(ctx, query.ClubID)
	if err != nil {
		return nil, err
	}
	if clases == nil {
		clases = []domainClase.Clase{}
	}
	return clases, nil
}
