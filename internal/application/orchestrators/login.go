package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"clubes/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByUsuario(ctx context.Context, usuario string) (account.Account, error)
	Save(ctx context.Context, a account.Account) (int64, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Usuario  string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID int64
	Usuario   string
	Rol       string
	ClubID    int64
	Nombre    string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
}

var (
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrAccountLocked      = errors.New("cuenta bloqueada por demasiados intentos fallidos")
)

// ExecuteLogin validates credentials and returns account info for token issuance.
// PRE: Usuario and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: A locked account never logs in, even with the right password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	usuario := strings.TrimSpace(input.Usuario)
	if usuario == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByUsuario(ctx, usuario)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "usuario", usuario, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked() {
		slog.Info("auth_event", "event", "login_blocked", "usuario", usuario, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin()
		if _, saveErr := deps.AccountStore.Save(ctx, acct); saveErr != nil {
			slog.Error("auth_event", "event", "failed_login_not_recorded", "usuario", usuario, "error", saveErr)
		}
		slog.Info("auth_event", "event", "login_failed", "usuario", usuario, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if _, err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "reset_failed_logins_failed", "usuario", usuario, "error", err)
		}
	}

	slog.Info("auth_event", "event", "login_success", "usuario", usuario, "rol", acct.Rol)

	return LoginResult{
		AccountID: acct.ID,
		Usuario:   acct.Usuario,
		Rol:       acct.Rol,
		ClubID:    acct.ClubID,
		Nombre:    acct.Nombre,
	}, nil
}
