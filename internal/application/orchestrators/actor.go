package orchestrators

import (
	"errors"

	"clubes/internal/domain/account"
)

// ErrForbidden is returned when the caller may not act on the target club.
var ErrForbidden = errors.New("no tienes permisos sobre este club")

// Actor is the authenticated caller of a command, as carried by its bearer token.
type Actor struct {
	AccountID int64
	Rol       string
	ClubID    int64
}

// CanManage reports whether the actor may mutate data owned by clubID.
// Distrital manages every club; director and instructor only their own.
func (a Actor) CanManage(clubID int64) bool {
	acct := account.Account{Rol: a.Rol, ClubID: a.ClubID}
	return acct.CanManageClub(clubID)
}
