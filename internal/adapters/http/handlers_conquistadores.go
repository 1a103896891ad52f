package web

import (
	"net/http"

	"clubes/internal/application/orchestrators"
	"clubes/internal/application/projections"
)

func conquistadorDeps() orchestrators.ConquistadorDeps {
	return orchestrators.ConquistadorDeps{ConquistadorStore: stores.ConquistadorStore}
}

// handleListRequisitos handles GET /api/requisitos/{claseId}
func handleListRequisitos(w http.ResponseWriter, r *http.Request) {
	claseID, ok := pathID(r, "claseId")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de clase inválido")
		return
	}
	reqs, err := projections.QueryRequisitos(r.Context(), projections.RequisitosQuery{ClaseID: claseID},
		projections.RequisitosDeps{RequisitoStore: stores.RequisitoStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// handleRoster handles GET /api/conquistadores/clase/{claseNombre}?club_id=
func handleRoster(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	clubID, ok := clubParam(r, actor)
	if !ok {
		writeError(w, http.StatusBadRequest, "club_id inválido")
		return
	}
	members, err := projections.QueryRoster(r.Context(), projections.RosterQuery{
		ClaseNombre: r.PathValue("claseNombre"),
		ClubID:      clubID,
		Visible:     visibleTo(actor),
	}, projections.RosterDeps{ConquistadorStore: stores.ConquistadorStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// handleCreateConquistador handles POST /api/conquistadores
func handleCreateConquistador(w http.ResponseWriter, r *http.Request) {
	var req createConquistadorRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	actor, _ := actorFrom(r)
	clubID := int64(req.ClubID)
	if clubID == 0 {
		clubID = actor.ClubID
	}

	c, err := orchestrators.ExecuteCreateConquistador(r.Context(), orchestrators.CreateConquistadorInput{
		Actor:  actor,
		Nombre: req.Nombre,
		Clase:  req.Clase,
		ClubID: clubID,
	}, conquistadorDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleRenameConquistador handles PUT /api/conquistadores/{id}
func handleRenameConquistador(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de conquistador inválido")
		return
	}
	var req renameConquistadorRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	actor, _ := actorFrom(r)

	c, err := orchestrators.ExecuteRenameConquistador(r.Context(), orchestrators.RenameConquistadorInput{
		Actor:          actor,
		ConquistadorID: id,
		Nombre:         req.Nombre,
	}, conquistadorDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteConquistador handles DELETE /api/conquistadores/{id}
func handleDeleteConquistador(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de conquistador inválido")
		return
	}
	actor, _ := actorFrom(r)
	err := orchestrators.ExecuteDeleteConquistador(r.Context(), orchestrators.DeleteConquistadorInput{
		Actor:          actor,
		ConquistadorID: id,
	}, conquistadorDeps())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
