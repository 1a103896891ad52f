package projections

import (
	"context"

	domainProgreso "clubes/internal/domain/progreso"
)

// ProgresoQuery carries query parameters.
type ProgresoQuery struct {
	ConquistadorID int64
	Visible        ClubFilter
}

// ProgresoDeps holds dependencies for QueryProgreso.
type ProgresoDeps struct {
	ConquistadorStore ConquistadorStore
	ProgresoStore     ProgresoStore
}

// QueryProgreso returns every stored progress entry of one member.
// PRE: member exists
// POST: one record per requisito the member has ever toggled, in first-toggle order
func QueryProgreso(ctx context.Context, query ProgresoQuery, deps ProgresoDeps) ([]domainProgreso.Record, error) {
	member, err := deps.ConquistadorStore.GetByID(ctx, query.ConquistadorID)
	if err != nil {
		return nil, err
	}
	if !query.Visible.allows(member.ClubID) {
		return nil, ErrNotVisible
	}
	records, err := deps.ProgresoStore.ListByConquistador(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domainProgreso.Record{}
	}
	return records, nil
}
