package projections

import (
	"context"

	"clubes/internal/application/markdown"
	domainRequisito "clubes/internal/domain/requisito"
)

// RequisitosQuery carries query parameters.
type RequisitosQuery struct {
	ClaseID int64
}

// RequisitoView is a requirement with its description rendered for display.
type RequisitoView struct {
	domainRequisito.Requirement
	DescripcionHTML string `json:"descripcion_html,omitempty"`
}

// RequisitosDeps holds dependencies for QueryRequisitos.
type RequisitosDeps struct {
	RequisitoStore RequisitoStore
}

// QueryRequisitos returns the catalog of a class in display order.
// PRE: ClaseID > 0
// POST: regular before avanzada, then category priority, then orden; never nil
func QueryRequisitos(ctx context.Context, query RequisitosQuery, deps RequisitosDeps) ([]RequisitoView, error) {
	reqs, err := deps.RequisitoStore.ListByClase(ctx, query.ClaseID)
	if err != nil {
		return nil, err
	}
	domainRequisito.Sort(reqs)

	out := make([]RequisitoView, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequisitoView{
			Requirement:     r,
			DescripcionHTML: markdown.Render(r.Descripcion),
		})
	}
	return out, nil
}
