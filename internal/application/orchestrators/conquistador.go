package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"clubes/internal/domain/conquistador"
)

// ConquistadorStoreForCommands defines the store interface needed by member commands.
type ConquistadorStoreForCommands interface {
	GetByID(ctx context.Context, id int64) (conquistador.Conquistador, error)
	Create(ctx context.Context, c conquistador.Conquistador) (conquistador.Conquistador, error)
	UpdateNombre(ctx context.Context, id int64, nombre string) error
	Delete(ctx context.Context, id int64) error
}

// ConquistadorDeps holds dependencies for member commands.
type ConquistadorDeps struct {
	ConquistadorStore ConquistadorStoreForCommands
}

// CreateConquistadorInput carries input for member creation.
type CreateConquistadorInput struct {
	Actor  Actor
	Nombre string
	Clase  string
	ClubID int64
}

// ExecuteCreateConquistador enrolls a new member in a class of a club.
// PRE: Actor may manage ClubID
// POST: Member persisted and returned with its id
func ExecuteCreateConquistador(ctx context.Context, input CreateConquistadorInput, deps ConquistadorDeps) (conquistador.Conquistador, error) {
	c := conquistador.Conquistador{Nombre: input.Nombre, Clase: input.Clase, ClubID: input.ClubID}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return conquistador.Conquistador{}, err
	}
	if !input.Actor.CanManage(c.ClubID) {
		slog.Warn("member_event", "event", "create_denied", "account_id", input.Actor.AccountID, "club_id", c.ClubID)
		return conquistador.Conquistador{}, ErrForbidden
	}

	created, err := deps.ConquistadorStore.Create(ctx, c)
	if err != nil {
		return conquistador.Conquistador{}, err
	}
	slog.Info("member_event", "event", "created", "conquistador_id", created.ID, "club_id", created.ClubID, "clase", created.Clase, "account_id", input.Actor.AccountID)
	return created, nil
}

// RenameConquistadorInput carries input for renaming a member.
type RenameConquistadorInput struct {
	Actor          Actor
	ConquistadorID int64
	Nombre         string
}

// ExecuteRenameConquistador changes a member's name.
// PRE: member exists; Actor may manage its club
// POST: Nombre updated and the updated member returned
func ExecuteRenameConquistador(ctx context.Context, input RenameConquistadorInput, deps ConquistadorDeps) (conquistador.Conquistador, error) {
	c, err := deps.ConquistadorStore.GetByID(ctx, input.ConquistadorID)
	if err != nil {
		return conquistador.Conquistador{}, err
	}
	if !input.Actor.CanManage(c.ClubID) {
		slog.Warn("member_event", "event", "rename_denied", "account_id", input.Actor.AccountID, "conquistador_id", c.ID)
		return conquistador.Conquistador{}, ErrForbidden
	}
	c.Nombre = strings.TrimSpace(input.Nombre)
	if err := c.Validate(); err != nil {
		return conquistador.Conquistador{}, err
	}
	if err := deps.ConquistadorStore.UpdateNombre(ctx, c.ID, c.Nombre); err != nil {
		return conquistador.Conquistador{}, err
	}
	slog.Info("member_event", "event", "renamed", "conquistador_id", c.ID, "account_id", input.Actor.AccountID)
	return c, nil
}

// DeleteConquistadorInput carries input for deleting a member.
type DeleteConquistadorInput struct {
	Actor          Actor
	ConquistadorID int64
}

// ExecuteDeleteConquistador removes a member and, with it, all of its progress.
// PRE: member exists; Actor may manage its club
// POST: member and its progress entries are gone
func ExecuteDeleteConquistador(ctx context.Context, input DeleteConquistadorInput, deps ConquistadorDeps) error {
	c, err := deps.ConquistadorStore.GetByID(ctx, input.ConquistadorID)
	if err != nil {
		return err
	}
	if !input.Actor.CanManage(c.ClubID) {
		slog.Warn("member_event", "event", "delete_denied", "account_id", input.Actor.AccountID, "conquistador_id", c.ID)
		return ErrForbidden
	}
	if err := deps.ConquistadorStore.Delete(ctx, c.ID); err != nil {
		return err
	}
	slog.Info("member_event", "event", "deleted", "conquistador_id", c.ID, "club_id", c.ClubID, "account_id", input.Actor.AccountID)
	return nil
}
