package web

import (
	"errors"
	"net/http"
	"time"

	"clubes/internal/adapters/http/middleware"
	"clubes/internal/application/orchestrators"
)

// handleHealth handles GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// handleLogin handles POST /api/auth/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Usuario:  req.User,
		Password: req.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, orchestrators.ErrAccountLocked):
		writeError(w, http.StatusLocked, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	token, issued, err := tokens.Issue(middleware.Identity{
		AccountID: result.AccountID,
		Usuario:   result.Usuario,
		Rol:       result.Rol,
		ClubID:    result.ClubID,
		Nombre:    result.Nombre,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: issued.ExpiresAt.UTC().Format(time.RFC3339),
		User: loginUser{
			ID:      result.AccountID,
			Usuario: result.Usuario,
			Rol:     result.Rol,
			ClubID:  result.ClubID,
			Nombre:  result.Nombre,
		},
	})
}

// handleLogout handles POST /api/auth/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	_, id := actorFrom(r)
	tokens.Revoke(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/auth/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	_, id := actorFrom(r)
	writeJSON(w, http.StatusOK, loginUser{
		ID:      id.AccountID,
		Usuario: id.Usuario,
		Rol:     id.Rol,
		ClubID:  id.ClubID,
		Nombre:  id.Nombre,
	})
}
