package frontend

import (
	"context"
	"errors"

	"clubes/internal/adapters/apiclient"
	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
	"clubes/internal/domain/session"
)

// User-facing errors. Messages are shown to the user verbatim.
var (
	ErrEmptyUser        = errors.New("Ingresa tu usuario")
	ErrEmptyPassword    = errors.New("Ingresa tu contraseña")
	ErrNotAuthenticated = session.ErrNotAuthenticated
	ErrReadOnly         = session.ErrReadOnly
	ErrDistritalOnly    = errors.New("solo el rol distrital puede ver la lista de clubes")
	ErrNoClub           = errors.New("club no seleccionado")
	ErrNoClase          = errors.New("Clase no seleccionada")
	ErrEmptyNombre      = errors.New("Escribe un nombre")
	ErrNoSelection      = errors.New("Selecciona un conquistador primero")
	ErrUnknownMember    = errors.New("el conquistador no está en esta clase")
	ErrUnknownRequisito = errors.New("el requisito no está en esta clase")
	ErrToggleFailed     = errors.New("No se pudo actualizar el progreso. Intenta nuevamente.")
	ErrSaveFailed       = errors.New("No se pudo guardar. Verifica tu conexión e intenta nuevamente.")
	ErrDeleteFailed     = errors.New("No se pudo eliminar el conquistador. Intenta nuevamente.")
	ErrLoadFailed       = errors.New("Error al cargar los datos")
)

// SessionStore is the persisted client state.
type SessionStore interface {
	Load() (session.Session, error)
	Save(session.Session) error
	Set(key, value string) error
	Clear() error
}

// LoginAPI is the backend surface used by the login flow.
type LoginAPI interface {
	Login(ctx context.Context, user, password string) (apiclient.LoginResult, error)
}

// DashboardAPI is the backend surface used by the club and class lists.
type DashboardAPI interface {
	Clubs(ctx context.Context) ([]club.Club, error)
	Clases(ctx context.Context, clubID string) ([]clase.Clase, error)
	CreateClase(ctx context.Context, nombre, clubID string) (clase.Clase, error)
	Logout(ctx context.Context) error
}

// ClassAPI is the backend surface used by the class detail table.
type ClassAPI interface {
	Club(ctx context.Context, id string) (club.Club, error)
	Requisitos(ctx context.Context, claseID string) ([]requisito.Requirement, error)
	Conquistadores(ctx context.Context, claseNombre, clubID string) []conquistador.Conquistador
	Progreso(ctx context.Context, conquistadorID string) ([]progreso.Entry, error)
	SetProgreso(ctx context.Context, conquistadorID, requisitoID string, cumplido bool) (apiclient.SetProgresoResult, error)
	CreateConquistador(ctx context.Context, nombre, claseNombre, clubID string) (conquistador.Conquistador, error)
	RenameConquistador(ctx context.Context, id, nombre string) error
	DeleteConquistador(ctx context.Context, id string) error
}

// Compile-time checks that the REST client serves every controller.
var (
	_ LoginAPI     = (*apiclient.Client)(nil)
	_ DashboardAPI = (*apiclient.Client)(nil)
	_ ClassAPI     = (*apiclient.Client)(nil)
)
