package frontend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
	"clubes/internal/domain/session"
)

// ClassView owns the state of one class detail page: catalog, roster, ledger and selection.
// Every access goes through its methods. Safe for concurrent use.
type ClassView struct {
	api  ClassAPI
	sess session.Session

	mu         sync.Mutex
	gen        uint64
	clubNombre string
	catalog    []requisito.Requirement
	catalogErr error
	members    []conquistador.Conquistador
	ledger     *progreso.Ledger
	selected   string
}

// NewClassView creates a controller for the session's selected class. Call Load before reading.
func NewClassView(api ClassAPI, sess session.Session) *ClassView {
	return &ClassView{api: api, sess: sess, ledger: progreso.NewLedger()}
}

// Session returns the session the view was built for.
func (v *ClassView) Session() session.Session {
	return v.sess
}

// CanMutate reports whether the session may change roster or progress.
func (v *ClassView) CanMutate() bool {
	return session.CanMutate(v.sess)
}

// Load fetches club name, catalog, roster and every member's progress.
// A catalog failure is recorded (see CatalogErr) and leaves the catalog empty; the page still renders.
// Progress is loaded for all members concurrently; one member's failure is logged and skipped.
// Calling Load again is the retry path.
// PRE: session has a token and a selected class
// POST: responses from an earlier Load, or for members no longer in the roster, are discarded
func (v *ClassView) Load(ctx context.Context) error {
	if !v.sess.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if v.sess.ClaseID == "" || v.sess.ClaseNombre == "" {
		return ErrNoClase
	}

	clubNombre := v.resolveClubNombre(ctx)

	catalog, catalogErr := v.api.Requisitos(ctx, v.sess.ClaseID)
	if errors.Is(catalogErr, ErrNotAuthenticated) {
		return catalogErr
	}
	if catalogErr != nil {
		slog.Warn("progress_event", "event", "catalog_load_failed", "clase_id", v.sess.ClaseID, "error", catalogErr)
		catalog = []requisito.Requirement{}
	}

	members := v.api.Conquistadores(ctx, v.sess.ClaseNombre, v.sess.ClubID)

	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.clubNombre = clubNombre
	v.catalog = catalog
	v.catalogErr = catalogErr
	v.members = append([]conquistador.Conquistador(nil), members...)
	v.ledger = progreso.NewLedger()
	if _, ok := v.memberLocked(v.selected); !ok {
		v.selected = ""
	}
	v.mu.Unlock()

	var wg sync.WaitGroup
	for _, m := range members {
		id := strconv.FormatInt(m.ID, 10)
		wg.Go(func() {
			entries, err := v.api.Progreso(ctx, id)
			if err != nil {
				slog.Warn("progress_event", "event", "progress_load_failed", "conquistador_id", id, "error", err)
				return
			}
			v.mergeProgress(gen, id, entries)
		})
	}
	wg.Wait()

	slog.Debug("progress_event", "event", "class_loaded", "clase_id", v.sess.ClaseID, "members", len(members), "requisitos", len(catalog))
	return nil
}

// resolveClubNombre prefers the stored name, then the server's, then the default.
func (v *ClassView) resolveClubNombre(ctx context.Context) string {
	if v.sess.ClubNombre != "" {
		return v.sess.ClubNombre
	}
	if v.sess.ClubID == "" {
		return club.DefaultNombre
	}
	c, err := v.api.Club(ctx, v.sess.ClubID)
	if err != nil || c.Nombre == "" {
		return club.DefaultNombre
	}
	return c.Nombre
}

// mergeProgress applies one member's response in response order.
func (v *ClassView) mergeProgress(gen uint64, memberID string, entries []progreso.Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return
	}
	if _, ok := v.memberLocked(memberID); !ok {
		slog.Debug("progress_event", "event", "stale_progress_discarded", "conquistador_id", memberID)
		return
	}
	for _, e := range entries {
		e.ConquistadorID = memberID
		v.ledger.Upsert(e)
	}
}

// CatalogErr returns the error of the last catalog load, or nil.
func (v *ClassView) CatalogErr() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.catalogErr
}

// ClubNombre returns the resolved club name.
func (v *ClassView) ClubNombre() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clubNombre
}

// Catalog returns a copy of the sorted requirement list.
func (v *ClassView) Catalog() []requisito.Requirement {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]requisito.Requirement(nil), v.catalog...)
}

// Members returns a copy of the roster.
func (v *ClassView) Members() []conquistador.Conquistador {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]conquistador.Conquistador(nil), v.members...)
}

// Ledger returns a snapshot of the progress ledger.
func (v *ClassView) Ledger() *progreso.Ledger {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.Clone()
}

// Checked reports whether the (member, requisito) box is ticked.
func (v *ClassView) Checked(memberID, requisitoID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ledger.IsCumplido(progreso.Key{ConquistadorID: memberID, RequisitoID: requisitoID})
}

// Select makes memberID the selected member.
func (v *ClassView) Select(memberID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.memberLocked(memberID); !ok {
		return ErrUnknownMember
	}
	v.selected = memberID
	return nil
}

// Selected returns the selected member, if any.
func (v *ClassView) Selected() (conquistador.Conquistador, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.memberLocked(v.selected)
}

// Summary computes the selected member's per-tier completion against the current catalog.
func (v *ClassView) Summary() (progreso.Summary, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.memberLocked(v.selected); !ok {
		return progreso.Summary{}, false
	}
	return progreso.Percentages(v.ledger, v.selected, v.catalog), true
}

// ToggleResult reports a successful progress change.
type ToggleResult struct {
	AvisoEnviado bool
}

// Toggle sets one (member, requisito) pair.
// PRE: session may mutate; member and requisito belong to the loaded class
// POST: on failure the ledger is unchanged and Checked still reports the previous value
func (v *ClassView) Toggle(ctx context.Context, memberID, requisitoID string, checked bool) (ToggleResult, error) {
	if err := session.RequireMutable(v.sess); err != nil {
		return ToggleResult{}, err
	}
	v.mu.Lock()
	_, known := v.memberLocked(memberID)
	inCatalog := v.requisitoLocked(requisitoID)
	v.mu.Unlock()
	if !known {
		return ToggleResult{}, ErrUnknownMember
	}
	if !inCatalog {
		return ToggleResult{}, ErrUnknownRequisito
	}

	res, err := v.api.SetProgreso(ctx, memberID, requisitoID, checked)
	if err != nil {
		slog.Warn("progress_event", "event", "toggle_failed", "conquistador_id", memberID, "requisito_id", requisitoID, "error", err)
		return ToggleResult{}, userError(ErrToggleFailed, err)
	}

	v.mu.Lock()
	if _, ok := v.memberLocked(memberID); ok {
		v.ledger.Upsert(progreso.Entry{ConquistadorID: memberID, RequisitoID: requisitoID, Cumplido: checked})
	}
	v.mu.Unlock()
	return ToggleResult{AvisoEnviado: res.AvisoEnviado}, nil
}

// AddMember creates a member in the current class and club.
// PRE: session may mutate
func (v *ClassView) AddMember(ctx context.Context, nombre string) (conquistador.Conquistador, error) {
	if err := session.RequireMutable(v.sess); err != nil {
		return conquistador.Conquistador{}, err
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return conquistador.Conquistador{}, ErrEmptyNombre
	}
	m, err := v.api.CreateConquistador(ctx, nombre, v.sess.ClaseNombre, v.sess.ClubID)
	if err != nil {
		return conquistador.Conquistador{}, userError(ErrSaveFailed, err)
	}
	v.mu.Lock()
	v.members = append(v.members, m)
	v.mu.Unlock()
	slog.Info("member_event", "event", "created", "conquistador_id", m.ID, "clase", v.sess.ClaseNombre)
	return m, nil
}

// RenameSelected renames the selected member.
// PRE: session may mutate; a member is selected
func (v *ClassView) RenameSelected(ctx context.Context, nombre string) error {
	if err := session.RequireMutable(v.sess); err != nil {
		return err
	}
	v.mu.Lock()
	id := v.selected
	_, ok := v.memberLocked(id)
	v.mu.Unlock()
	if !ok {
		return ErrNoSelection
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return ErrEmptyNombre
	}
	if err := v.api.RenameConquistador(ctx, id, nombre); err != nil {
		return userError(ErrSaveFailed, err)
	}
	v.mu.Lock()
	for i := range v.members {
		if strconv.FormatInt(v.members[i].ID, 10) == id {
			v.members[i].Nombre = nombre
		}
	}
	v.mu.Unlock()
	return nil
}

// DeleteSelected removes the selected member and its ledger entries.
// PRE: session may mutate; a member is selected
// POST: selection is cleared
func (v *ClassView) DeleteSelected(ctx context.Context) error {
	if err := session.RequireMutable(v.sess); err != nil {
		return err
	}
	v.mu.Lock()
	id := v.selected
	_, ok := v.memberLocked(id)
	v.mu.Unlock()
	if !ok {
		return ErrNoSelection
	}
	if err := v.api.DeleteConquistador(ctx, id); err != nil {
		return userError(ErrDeleteFailed, err)
	}
	v.mu.Lock()
	kept := v.members[:0]
	for _, m := range v.members {
		if strconv.FormatInt(m.ID, 10) != id {
			kept = append(kept, m)
		}
	}
	v.members = kept
	v.ledger.RemoveMember(id)
	if v.selected == id {
		v.selected = ""
	}
	v.mu.Unlock()
	slog.Info("member_event", "event", "deleted", "conquistador_id", id)
	return nil
}

// memberLocked looks a member up by its string id. Caller holds mu.
func (v *ClassView) memberLocked(id string) (conquistador.Conquistador, bool) {
	if id == "" {
		return conquistador.Conquistador{}, false
	}
	for _, m := range v.members {
		if strconv.FormatInt(m.ID, 10) == id {
			return m, true
		}
	}
	return conquistador.Conquistador{}, false
}

// requisitoLocked reports whether the id is in the current catalog. Caller holds mu.
func (v *ClassView) requisitoLocked(id string) bool {
	for _, r := range v.catalog {
		if strconv.FormatInt(r.ID, 10) == id {
			return true
		}
	}
	return false
}

// userError tags err with a user-facing message. ErrNotAuthenticated passes through untouched.
func userError(userErr, err error) error {
	if errors.Is(err, ErrNotAuthenticated) {
		return err
	}
	return fmt.Errorf("%w: %w", userErr, err)
}
