package frontend

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"clubes/internal/adapters/sessionstore"
	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/session"
)

// ClubItem is one entry of the distrital club list.
type ClubItem struct {
	ID     string
	Nombre string
}

// Dashboard drives the club list (distrital) and the class list (every role).
type Dashboard struct {
	api   DashboardAPI
	store SessionStore
	sess  session.Session
}

// NewDashboard loads the persisted session.
// POST: returns ErrNotAuthenticated when no token is stored
func NewDashboard(api DashboardAPI, store SessionStore) (*Dashboard, error) {
	sess, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return &Dashboard{api: api, store: store, sess: sess}, nil
}

// Session returns the current session.
func (d *Dashboard) Session() session.Session {
	return d.sess
}

// Title is the club heading of the class list.
func (d *Dashboard) Title() string {
	nombre := d.sess.ClubNombre
	if nombre == "" {
		nombre = club.DefaultNombre
	}
	if d.sess.IsReadMode() {
		return nombre + " (MODO LECTURA)"
	}
	return nombre
}

// Clubs lists every club for a distrital session. Unnamed clubs show as "Club <id>".
func (d *Dashboard) Clubs(ctx context.Context) ([]ClubItem, error) {
	if !strings.EqualFold(d.sess.Rol, session.RoleDistrital) {
		return nil, ErrDistritalOnly
	}
	clubs, err := d.api.Clubs(ctx)
	if err != nil {
		return nil, userError(ErrLoadFailed, err)
	}
	items := make([]ClubItem, 0, len(clubs))
	for _, c := range clubs {
		id := strconv.FormatInt(c.ID, 10)
		nombre := c.Nombre
		if nombre == "" {
			nombre = "Club " + id
		}
		items = append(items, ClubItem{ID: id, Nombre: nombre})
	}
	return items, nil
}

// EnterClub opens a club in read mode.
// POST: session club_id, club_nombre set; modo = lectura; class selection cleared
func (d *Dashboard) EnterClub(item ClubItem) error {
	d.sess.ClubID = item.ID
	d.sess.ClubNombre = item.Nombre
	d.sess.Modo = session.ModeLectura
	d.sess.ClaseID = ""
	d.sess.ClaseNombre = ""
	if err := d.store.Save(d.sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	slog.Info("auth_event", "event", "enter_club", "club_id", item.ID, "access", d.sess.Access().String())
	return nil
}

// BackToClubs leaves the current club and returns to the distrital list.
func (d *Dashboard) BackToClubs() error {
	d.sess.ClubID = ""
	d.sess.ClubNombre = ""
	d.sess.ClaseID = ""
	d.sess.ClaseNombre = ""
	d.sess.Modo = ""
	return d.store.Save(d.sess)
}

// Clases lists the classes of the session club.
func (d *Dashboard) Clases(ctx context.Context) ([]clase.Clase, error) {
	if d.sess.ClubID == "" {
		return nil, ErrNoClub
	}
	clases, err := d.api.Clases(ctx, d.sess.ClubID)
	if err != nil {
		return nil, userError(ErrLoadFailed, err)
	}
	return clases, nil
}

// SelectClase remembers the class to open in the detail table.
func (d *Dashboard) SelectClase(c clase.Clase) error {
	d.sess.ClaseID = strconv.FormatInt(c.ID, 10)
	d.sess.ClaseNombre = c.Nombre
	if err := d.store.Set(sessionstore.KeyClaseID, d.sess.ClaseID); err != nil {
		return err
	}
	return d.store.Set(sessionstore.KeyClaseNombre, d.sess.ClaseNombre)
}

// CreateClase adds a class to the session club.
// PRE: session may mutate
func (d *Dashboard) CreateClase(ctx context.Context, nombre string) (clase.Clase, error) {
	if err := session.RequireMutable(d.sess); err != nil {
		return clase.Clase{}, err
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return clase.Clase{}, ErrEmptyNombre
	}
	if d.sess.ClubID == "" {
		return clase.Clase{}, ErrNoClub
	}
	c, err := d.api.CreateClase(ctx, nombre, d.sess.ClubID)
	if err != nil {
		return clase.Clase{}, userError(ErrSaveFailed, err)
	}
	slog.Info("clase_event", "event", "created", "clase_id", c.ID, "club_id", d.sess.ClubID)
	return c, nil
}

// Logout revokes the token server-side when possible and clears every stored key.
func (d *Dashboard) Logout(ctx context.Context) error {
	if err := d.api.Logout(ctx); err != nil {
		slog.Warn("auth_event", "event", "logout_revoke_failed", "error", err)
	}
	d.sess = session.Session{}
	return d.store.Clear()
}
