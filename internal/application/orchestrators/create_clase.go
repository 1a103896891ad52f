package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"clubes/internal/domain/clase"
)

// ClaseStoreForCreate defines the store interface needed by CreateClase.
type ClaseStoreForCreate interface {
	GetByNombre(ctx context.Context, nombre string, clubID int64) (clase.Clase, error)
	ListForClub(ctx context.Context, clubID int64) ([]clase.Clase, error)
	Save(ctx context.Context, c clase.Clase) (int64, error)
}

// CreateClaseInput carries input for creating a club-specific class.
type CreateClaseInput struct {
	Actor  Actor
	Nombre string
	ClubID int64
}

// CreateClaseDeps holds dependencies for CreateClase.
type CreateClaseDeps struct {
	ClaseStore ClaseStoreForCreate
}

// ExecuteCreateClase adds a class owned by one club, ordered after every class the club already sees.
// PRE: Actor may manage ClubID
// POST: class persisted; a name already visible to the club is rejected with clase.ErrDuplicate
func ExecuteCreateClase(ctx context.Context, input CreateClaseInput, deps CreateClaseDeps) (clase.Clase, error) {
	c := clase.Clase{Nombre: strings.TrimSpace(input.Nombre), ClubID: input.ClubID}
	if err := c.Validate(); err != nil {
		return clase.Clase{}, err
	}
	if c.ClubID <= 0 || !input.Actor.CanManage(c.ClubID) {
		return clase.Clase{}, ErrForbidden
	}
	if _, err := deps.ClaseStore.GetByNombre(ctx, c.Nombre, c.ClubID); err == nil {
		return clase.Clase{}, clase.ErrDuplicate
	}

	existing, err := deps.ClaseStore.ListForClub(ctx, c.ClubID)
	if err != nil {
		return clase.Clase{}, err
	}
	for _, e := range existing {
		if e.Orden >= c.Orden {
			c.Orden = e.Orden + 1
		}
	}

	id, err := deps.ClaseStore.Save(ctx, c)
	if err != nil {
		return clase.Clase{}, err
	}
	c.ID = id
	slog.Info("clase_event", "event", "created", "clase_id", id, "club_id", c.ClubID, "account_id", input.Actor.AccountID)
	return c, nil
}
