package web

import (
	"net/http"

	"clubes/internal/adapters/http/middleware"
	"clubes/internal/domain/session"
)

func registerRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	distritalOnly := middleware.RequireRole(session.RoleDistrital)

	mux.HandleFunc("GET /health", handleHealth)

	mux.HandleFunc("POST /api/auth/login", handleLogin)
	mux.Handle("POST /api/auth/logout", authed(handleLogout))
	mux.Handle("GET /api/auth/me", authed(handleMe))

	mux.Handle("GET /api/clubs", distritalOnly(http.HandlerFunc(handleListClubs)))
	mux.Handle("GET /api/clubs/{id}", authed(handleGetClub))

	mux.Handle("GET /api/clases", authed(handleListClases))
	mux.Handle("POST /api/clases", authed(handleCreateClase))

	mux.Handle("GET /api/requisitos/{claseId}", authed(handleListRequisitos))

	mux.Handle("GET /api/conquistadores/clase/{claseNombre}", authed(handleRoster))
	mux.Handle("POST /api/conquistadores", authed(handleCreateConquistador))
	mux.Handle("PUT /api/conquistadores/{id}", authed(handleRenameConquistador))
	mux.Handle("DELETE /api/conquistadores/{id}", authed(handleDeleteConquistador))

	mux.Handle("GET /api/progreso/{conquistadorId}", authed(handleGetProgreso))
	mux.Handle("POST /api/progreso", authed(handleSetProgreso))

	mux.Handle("GET /api/perf", distritalOnly(http.HandlerFunc(handlePerf)))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "ruta no encontrada")
	})
}
