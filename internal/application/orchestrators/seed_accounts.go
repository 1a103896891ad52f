package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clubes/internal/domain/club"
	"clubes/internal/domain/session"
)

// SeedAccountsInput carries the password every seeded account receives.
type SeedAccountsInput struct {
	Password string
}

// SeedAccountsDeps holds stores needed for account seeding.
type SeedAccountsDeps struct {
	AccountStore AccountStoreForCreate
	ClubStore    seedAccountsClubStore
}

type seedAccountsClubStore interface {
	List(ctx context.Context) ([]club.Club, error)
	GetByID(ctx context.Context, id int64) (club.Club, error)
}

// ErrSeedPasswordMissing is returned when seeding is requested without a password.
var ErrSeedPasswordMissing = errors.New("seed password is required")

// ExecuteSeedAccounts creates one distrital account plus a director and an instructor per club.
// Accounts are named distrital, dirN and instN where N is the club's position in name order.
// It is idempotent: existing usuarios are skipped.
// PRE: Catalog has been seeded
// POST: every seed account exists
func ExecuteSeedAccounts(ctx context.Context, input SeedAccountsInput, deps SeedAccountsDeps) error {
	if input.Password == "" {
		return ErrSeedPasswordMissing
	}
	clubs, err := deps.ClubStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list clubs: %w", err)
	}

	defs := []CreateAccountInput{{Usuario: "distrital", Rol: session.RoleDistrital, Nombre: "Coordinación distrital"}}
	for i, c := range clubs {
		n := i + 1
		defs = append(defs,
			CreateAccountInput{Usuario: fmt.Sprintf("dir%d", n), Rol: session.RoleDirector, ClubID: c.ID, Nombre: "Dirección " + c.Nombre},
			CreateAccountInput{Usuario: fmt.Sprintf("inst%d", n), Rol: session.RoleInstructor, ClubID: c.ID, Nombre: "Instructor " + c.Nombre},
		)
	}

	created := 0
	createDeps := CreateAccountDeps{AccountStore: deps.AccountStore, ClubStore: deps.ClubStore}
	for _, def := range defs {
		def.Password = input.Password
		_, err := ExecuteCreateAccount(ctx, def, createDeps)
		if errors.Is(err, ErrUsuarioTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed account %q: %w", def.Usuario, err)
		}
		created++
	}
	if created > 0 {
		slog.Info("seed_event", "event", "accounts_seeded", "count", created)
	}
	return nil
}
