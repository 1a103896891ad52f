package web

import (
	"net/http"

	"clubes/internal/application/orchestrators"
	"clubes/internal/application/projections"
)

func clubsDeps() projections.ClubsDeps {
	return projections.ClubsDeps{ClubStore: stores.ClubStore, ClaseStore: stores.ClaseStore}
}

// handleListClubs handles GET /api/clubs (distrital only)
func handleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := projections.QueryClubs(r.Context(), clubsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

// handleGetClub handles GET /api/clubs/{id}
func handleGetClub(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de club inválido")
		return
	}
	actor, _ := actorFrom(r)
	c, err := projections.QueryClub(r.Context(), projections.ClubQuery{ClubID: id, Visible: visibleTo(actor)}, clubsDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleListClases handles GET /api/clases?club_id=
func handleListClases(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	clubID, ok := clubParam(r, actor)
	if !ok {
		writeError(w, http.StatusBadRequest, "club_id inválido")
		return
	}
	clases, err := projections.QueryClases(r.Context(), projections.ClasesQuery{ClubID: clubID, Visible: visibleTo(actor)}, clubsDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clases)
}

// handleCreateClase handles POST /api/clases
func handleCreateClase(w http.ResponseWriter, r *http.Request) {
	var req createClaseRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	actor, _ := actorFrom(r)
	clubID := int64(req.ClubID)
	if clubID == 0 {
		clubID = actor.ClubID
	}

	c, err := orchestrators.ExecuteCreateClase(r.Context(), orchestrators.CreateClaseInput{
		Actor:  actor,
		Nombre: req.Nombre,
		ClubID: clubID,
	}, orchestrators.CreateClaseDeps{ClaseStore: stores.ClaseStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
