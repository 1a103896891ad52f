package web

import (
	"net/http"
	"strconv"
	"time"

	"clubes/internal/application/orchestrators"
	"clubes/internal/application/projections"
)

// handleGetProgreso handles GET /api/progreso/{conquistadorId}
func handleGetProgreso(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "conquistadorId")
	if !ok {
		writeError(w, http.StatusBadRequest, "id de conquistador inválido")
		return
	}
	actor, _ := actorFrom(r)
	records, err := projections.QueryProgreso(r.Context(), projections.ProgresoQuery{
		ConquistadorID: id,
		Visible:        visibleTo(actor),
	}, projections.ProgresoDeps{ConquistadorStore: stores.ConquistadorStore, ProgresoStore: stores.ProgresoStore})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleSetProgreso handles POST /api/progreso
func handleSetProgreso(w http.ResponseWriter, r *http.Request) {
	var req setProgresoRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	actor, _ := actorFrom(r)

	deps := orchestrators.ToggleProgressDeps{
		ProgresoStore:     stores.ProgresoStore,
		RequisitoStore:    stores.RequisitoStore,
		ConquistadorStore: stores.ConquistadorStore,
		ClaseStore:        stores.ClaseStore,
	}
	if emailSender != nil {
		deps.ClubStore = stores.ClubStore
		deps.Avisos = stores.AvisoStore
		deps.Sender = emailSender
	}

	res, err := orchestrators.ExecuteToggleProgress(r.Context(), orchestrators.ToggleProgressInput{
		Actor:          actor,
		ConquistadorID: int64(req.ConquistadorID),
		RequisitoID:    int64(req.RequisitoID),
		Cumplido:       *req.Cumplido,
	}, deps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setProgresoResponse{
		ConquistadorID: res.Record.ConquistadorID,
		RequisitoID:    res.Record.RequisitoID,
		Cumplido:       res.Record.Cumplido,
		AvisoEnviado:   res.NoticeSent,
	})
}

// handlePerf handles GET /api/perf?minutes=&top= (distrital only)
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeError(w, http.StatusServiceUnavailable, "métricas desactivadas")
		return
	}
	minutes := queryInt(r, "minutes", 60)
	top := queryInt(r, "top", 10)
	since := time.Now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Report(since, top))
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
