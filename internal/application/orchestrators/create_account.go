package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubes/internal/domain/account"
	"clubes/internal/domain/club"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByUsuario(ctx context.Context, usuario string) (account.Account, error)
	Save(ctx context.Context, a account.Account) (int64, error)
}

// ClubLookup resolves a club by id.
type ClubLookup interface {
	GetByID(ctx context.Context, id int64) (club.Club, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Usuario  string
	Password string
	Rol      string
	ClubID   int64
	Nombre   string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	ClubStore    ClubLookup
}

// ErrUsuarioTaken is returned when the login name is already in use.
var ErrUsuarioTaken = errors.New("ya existe una cuenta con ese usuario")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid usuario, password >= 8 chars, valid role; club exists unless distrital
// POST: Account created with hashed password; its id is returned
// INVARIANT: Usuario must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (int64, error) {
	acct := account.Account{
		Usuario:   strings.TrimSpace(input.Usuario),
		Rol:       input.Rol,
		ClubID:    input.ClubID,
		Nombre:    strings.TrimSpace(input.Nombre),
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return 0, err
	}
	if _, err := deps.AccountStore.GetByUsuario(ctx, acct.Usuario); err == nil {
		return 0, ErrUsuarioTaken
	}
	if acct.ClubID != 0 && deps.ClubStore != nil {
		if _, err := deps.ClubStore.GetByID(ctx, acct.ClubID); err != nil {
			return 0, fmt.Errorf("club %d: %w", acct.ClubID, err)
		}
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return 0, err
	}

	id, err := deps.AccountStore.Save(ctx, acct)
	if err != nil {
		return 0, err
	}
	slog.Info("auth_event", "event", "account_created", "usuario", acct.Usuario, "rol", acct.Rol, "club_id", acct.ClubID)
	return id, nil
}
