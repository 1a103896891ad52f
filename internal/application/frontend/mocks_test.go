package frontend_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"clubes/internal/adapters/apiclient"
	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
	"clubes/internal/domain/session"
)

var errNetwork = errors.New("network down")

// memSessionStore is an in-memory SessionStore.
type memSessionStore struct {
	sess    session.Session
	saveErr error
	cleared bool
}

func (m *memSessionStore) Load() (session.Session, error) { return m.sess, nil }

func (m *memSessionStore) Save(s session.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sess = s
	return nil
}

func (m *memSessionStore) Set(key, value string) error {
	switch key {
	case "clase_id":
		m.sess.ClaseID = value
	case "clase_nombre":
		m.sess.ClaseNombre = value
	case "modo":
		m.sess.Modo = value
	case "club_id":
		m.sess.ClubID = value
	case "club_nombre":
		m.sess.ClubNombre = value
	default:
		return errors.New("unexpected key " + key)
	}
	return nil
}

func (m *memSessionStore) Clear() error {
	m.sess = session.Session{}
	m.cleared = true
	return nil
}

// fakeAPI is a hand-written backend double. Fields are read under mu.
type fakeAPI struct {
	mu sync.Mutex

	loginRes apiclient.LoginResult
	loginErr error

	clubs    []club.Club
	clubErr  error
	clases   []clase.Clase
	claseErr error

	catalog    []requisito.Requirement
	catalogErr error
	members    []conquistador.Conquistador
	progress   map[string][]progreso.Entry
	progErr    map[string]error
	// progressGate, when set for a member, blocks its Progreso call until closed.
	progressGate map[string]chan struct{}
	progStarted  chan string

	setErr    error
	mutateErr error
	logoutErr error

	calls     []string
	setCalls  int
	nextID    int64
	lastCreds [2]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		progress:     map[string][]progreso.Entry{},
		progErr:      map[string]error{},
		progressGate: map[string]chan struct{}{},
		nextID:       100,
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Login(_ context.Context, user, password string) (apiclient.LoginResult, error) {
	f.record("login")
	f.lastCreds = [2]string{user, password}
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeAPI) Clubs(context.Context) ([]club.Club, error) {
	f.record("clubs")
	return f.clubs, f.clubErr
}

func (f *fakeAPI) Club(_ context.Context, id string) (club.Club, error) {
	f.record("club")
	if f.clubErr != nil {
		return club.Club{}, f.clubErr
	}
	for _, c := range f.clubs {
		if strconv.FormatInt(c.ID, 10) == id {
			return c, nil
		}
	}
	return club.Club{}, errors.New("club no encontrado")
}

func (f *fakeAPI) Clases(context.Context, string) ([]clase.Clase, error) {
	f.record("clases")
	return f.clases, f.claseErr
}

func (f *fakeAPI) CreateClase(_ context.Context, nombre, clubID string) (clase.Clase, error) {
	f.record("create_clase")
	if f.mutateErr != nil {
		return clase.Clase{}, f.mutateErr
	}
	id, _ := strconv.ParseInt(clubID, 10, 64)
	return clase.Clase{ID: 50, Nombre: nombre, ClubID: id}, nil
}

func (f *fakeAPI) Requisitos(context.Context, string) ([]requisito.Requirement, error) {
	f.record("requisitos")
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	out := append([]requisito.Requirement(nil), f.catalog...)
	requisito.Sort(out)
	return out, nil
}

func (f *fakeAPI) Conquistadores(context.Context, string, string) []conquistador.Conquistador {
	f.record("conquistadores")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]conquistador.Conquistador{}, f.members...)
}

func (f *fakeAPI) Progreso(_ context.Context, id string) ([]progreso.Entry, error) {
	f.mu.Lock()
	gate := f.progressGate[id]
	started := f.progStarted
	f.mu.Unlock()
	if started != nil {
		started <- id
	}
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.progErr[id]; err != nil {
		return nil, err
	}
	return append([]progreso.Entry(nil), f.progress[id]...), nil
}

func (f *fakeAPI) SetProgreso(_ context.Context, cid, rid string, cumplido bool) (apiclient.SetProgresoResult, error) {
	f.record("set_progreso")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return apiclient.SetProgresoResult{}, f.setErr
	}
	return apiclient.SetProgresoResult{}, nil
}

func (f *fakeAPI) CreateConquistador(_ context.Context, nombre, claseNombre, clubID string) (conquistador.Conquistador, error) {
	f.record("create_conquistador")
	if f.mutateErr != nil {
		return conquistador.Conquistador{}, f.mutateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id, _ := strconv.ParseInt(clubID, 10, 64)
	m := conquistador.Conquistador{ID: f.nextID, Nombre: nombre, Clase: claseNombre, ClubID: id}
	f.members = append(f.members, m)
	return m, nil
}

func (f *fakeAPI) RenameConquistador(context.Context, string, string) error {
	f.record("rename_conquistador")
	return f.mutateErr
}

func (f *fakeAPI) DeleteConquistador(_ context.Context, id string) error {
	f.record("delete_conquistador")
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.members[:0]
	for _, m := range f.members {
		if strconv.FormatInt(m.ID, 10) != id {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeAPI) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

// classFixture: class Amigo of club 1 with requisitos 7, 8 (regular) and 9 (avanzada),
// members 42 and 43; member 42 has requisito 7 fulfilled.
func classFixture() *fakeAPI {
	f := newFakeAPI()
	f.clubs = []club.Club{{ID: 1, Nombre: "Orión"}}
	f.catalog = []requisito.Requirement{
		{ID: 9, ClaseID: 1, Titulo: "Nudos", Tipo: requisito.TipoAvanzada, Categoria: "Arte de acampar", Orden: 1},
		{ID: 8, ClaseID: 1, Titulo: "Ley del conquistador", Tipo: requisito.TipoRegular, Categoria: "Generales", Orden: 2},
		{ID: 7, ClaseID: 1, Titulo: "Tener 10 años", Tipo: requisito.TipoRegular, Categoria: "Generales", Orden: 1},
	}
	f.members = []conquistador.Conquistador{
		{ID: 42, Nombre: "Ana", Clase: "Amigo", ClubID: 1},
		{ID: 43, Nombre: "Luis", Clase: "Amigo", ClubID: 1},
	}
	f.progress["42"] = []progreso.Entry{{ConquistadorID: "42", RequisitoID: "7", Cumplido: true}}
	return f
}

func directorSession() session.Session {
	return session.Session{Token: "t1", Rol: session.RoleDirector, ClubID: "1", ClaseID: "1", ClaseNombre: "Amigo"}
}

func readOnlySession() session.Session {
	return session.Session{
		Token: "t2", Rol: "Distrital", Modo: session.ModeLectura,
		ClubID: "1", ClubNombre: "Orión", ClaseID: "1", ClaseNombre: "Amigo",
	}
}
