package session

import (
	"errors"
	"strings"
)

// Role constants as issued by the backend on login.
const (
	RoleDirector   = "director"
	RoleInstructor = "instructor"
	RoleDistrital  = "distrital"
)

// Mode constants. ModeLectura only has meaning for the distrital role.
const (
	ModeEscritura = "escritura"
	ModeLectura   = "lectura"
)

// Dashboard targets after login.
const (
	DashboardDirector  = "/dashboard-director"
	DashboardDistrital = "/dashboard-distrital"
	LoginPath          = "/login"
)

// Domain errors
var (
	ErrReadOnly         = errors.New("no tienes permisos para modificar datos en modo lectura")
	ErrNotAuthenticated = errors.New("sesión expirada, inicia sesión nuevamente")
)

// Access is the tagged access level derived once from role and mode.
type Access int

const (
	AccessOther Access = iota
	AccessDirector
	AccessInstructor
	AccessDistritalReadOnly
	AccessDistritalEditable
)

// String returns a log-friendly name for the access level.
func (a Access) String() string {
	switch a {
	case AccessDirector:
		return "director"
	case AccessInstructor:
		return "instructor"
	case AccessDistritalReadOnly:
		return "distrital_lectura"
	case AccessDistritalEditable:
		return "distrital_escritura"
	default:
		return "other"
	}
}

// Session holds the client-side authentication context and the selected club/class.
type Session struct {
	Token       string
	Rol         string
	ClubID      string
	ClubNombre  string
	ClaseID     string
	ClaseNombre string
	Modo        string
	UserID      string
	UserName    string
}

// DeriveAccess maps a raw role/mode pair onto an Access level.
// Role comparison is case-insensitive; mode is only consulted for distrital.
func DeriveAccess(rol, modo string) Access {
	switch strings.ToLower(strings.TrimSpace(rol)) {
	case RoleDirector:
		return AccessDirector
	case RoleInstructor:
		return AccessInstructor
	case RoleDistrital:
		if modo == ModeLectura {
			return AccessDistritalReadOnly
		}
		return AccessDistritalEditable
	default:
		return AccessOther
	}
}

// Access returns the derived access level for this session.
// INVARIANT: Session fields are not mutated
func (s Session) Access() Access {
	return DeriveAccess(s.Rol, s.Modo)
}

// IsAuthenticated reports whether a token is present.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsReadMode reports whether the session is the distrital read-only view.
func (s Session) IsReadMode() bool {
	return s.Access() == AccessDistritalReadOnly
}

// CanMutate is the single access predicate consulted by both rendering and actions.
// Only the (distrital, lectura) combination is read-only; every other role is mutable.
func CanMutate(s Session) bool {
	return s.Access() != AccessDistritalReadOnly
}

// RequireMutable returns ErrReadOnly when the session may not mutate data.
func RequireMutable(s Session) error {
	if !CanMutate(s) {
		return ErrReadOnly
	}
	return nil
}

// DashboardFor returns the redirect target after a successful login.
// Unknown roles fall back to the director dashboard.
func DashboardFor(rol string) string {
	if strings.ToLower(rol) == RoleDistrital {
		return DashboardDistrital
	}
	return DashboardDirector
}
