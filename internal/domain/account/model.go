package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clubes/internal/domain/session"
)

// Max length constants for user-editable fields.
const (
	MaxUsuarioLength = 64
	MaxNombreLength  = 100
	MinPasswordLen   = 8
)

// Lockout policy
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{session.RoleDirector, session.RoleInstructor, session.RoleDistrital}

// Domain errors
var (
	ErrEmptyUsuario     = errors.New("el usuario no puede estar vacío")
	ErrInvalidRole      = errors.New("rol debe ser director, instructor o distrital")
	ErrClubRequired     = errors.New("director e instructor deben pertenecer a un club")
	ErrEmptyPassword    = errors.New("la contraseña no puede estar vacía")
	ErrPasswordTooShort = errors.New("la contraseña debe tener al menos 8 caracteres")
	ErrWrongPassword    = errors.New("contraseña incorrecta")
)

// Account is a backend login identity.
// ClubID is zero for distrital accounts, which are not bound to a club.
type Account struct {
	ID           int64
	Usuario      string
	PasswordHash string
	Rol          string
	ClubID       int64
	Nombre       string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Usuario) == "" {
		return ErrEmptyUsuario
	}
	if len(a.Usuario) > MaxUsuarioLength {
		return errors.New("el usuario no puede exceder 64 caracteres")
	}
	if len(a.Nombre) > MaxNombreLength {
		return errors.New("el nombre no puede exceder 100 caracteres")
	}
	if !isValidRole(a.Rol) {
		return ErrInvalidRole
	}
	if a.Rol != session.RoleDistrital && a.ClubID <= 0 {
		return ErrClubRequired
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 8 characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// PRE: Account exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = time.Now().Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// IsDistrital returns true for district-level accounts.
func (a *Account) IsDistrital() bool {
	return a.Rol == session.RoleDistrital
}

// CanManageClub reports whether the account may mutate data belonging to clubID.
// Distrital accounts manage every club; director and instructor only their own.
func (a *Account) CanManageClub(clubID int64) bool {
	if a.IsDistrital() {
		return true
	}
	return a.ClubID > 0 && a.ClubID == clubID
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
