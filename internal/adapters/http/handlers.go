package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"clubes/internal/adapters/http/middleware"
	"clubes/internal/adapters/storage"
	"clubes/internal/application/orchestrators"
	"clubes/internal/application/projections"
	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "error interno del servidor")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields and trailing data.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// actorFrom returns the authenticated caller. Routes behind RequireAuth always have one.
func actorFrom(r *http.Request) (orchestrators.Actor, middleware.Identity) {
	id, _ := middleware.GetIdentityFromContext(r.Context())
	return orchestrators.Actor{AccountID: id.AccountID, Rol: id.Rol, ClubID: id.ClubID}, id
}

// visibleTo returns the club filter for read queries.
func visibleTo(actor orchestrators.Actor) projections.ClubFilter {
	return actor.CanManage
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// clubParam reads ?club_id=, defaulting to the caller's own club.
func clubParam(r *http.Request, actor orchestrators.Actor) (int64, bool) {
	raw := r.URL.Query().Get("club_id")
	if raw == "" {
		return actor.ClubID, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

var badRequestErrors = []error{
	conquistador.ErrEmptyNombre,
	conquistador.ErrEmptyClase,
	conquistador.ErrInvalidClub,
	clase.ErrEmptyNombre,
	club.ErrEmptyNombre,
	requisito.ErrEmptyTitulo,
	requisito.ErrInvalidTipo,
	progreso.ErrInvalidConquistador,
	progreso.ErrInvalidRequisito,
	orchestrators.ErrRequisitoOutsideClase,
}

var notFoundErrors = []error{
	storage.ErrNotFound,
	conquistador.ErrNotFound,
	clase.ErrNotFound,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeDomainError maps command and query errors to status codes.
// Unknown errors are logged and answered with a generic 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case isAny(err, badRequestErrors):
		writeError(w, http.StatusBadRequest, err.Error())
	case isAny(err, notFoundErrors):
		writeError(w, http.StatusNotFound, "no encontrado")
	case errors.Is(err, orchestrators.ErrForbidden), errors.Is(err, projections.ErrNotVisible):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, clase.ErrDuplicate), errors.Is(err, orchestrators.ErrUsuarioTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		internalError(w, err)
	}
}
