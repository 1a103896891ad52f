package orchestrators

import (
	"context"
	"errors"
	"strings"

	"clubes/internal/adapters/storage"
	"clubes/internal/domain/account"
	"clubes/internal/domain/clase"
	"clubes/internal/domain/club"
	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/progreso"
	"clubes/internal/domain/requisito"
)

// memAccountStore is an in-memory account store keyed by id.
type memAccountStore struct {
	accounts map[int64]account.Account
	nextID   int64
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[int64]account.Account)}
}

func (m *memAccountStore) GetByUsuario(_ context.Context, usuario string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Usuario == usuario {
			return a, nil
		}
	}
	return account.Account{}, storage.ErrNotFound
}

func (m *memAccountStore) Save(_ context.Context, a account.Account) (int64, error) {
	if a.ID == 0 {
		m.nextID++
		a.ID = m.nextID
	}
	m.accounts[a.ID] = a
	return a.ID, nil
}

// memClubStore is an in-memory club store.
type memClubStore struct {
	clubs []club.Club
}

func (m *memClubStore) GetByID(_ context.Context, id int64) (club.Club, error) {
	for _, c := range m.clubs {
		if c.ID == id {
			return c, nil
		}
	}
	return club.Club{}, storage.ErrNotFound
}

func (m *memClubStore) GetByNombre(_ context.Context, nombre string) (club.Club, error) {
	for _, c := range m.clubs {
		if c.Nombre == nombre {
			return c, nil
		}
	}
	return club.Club{}, storage.ErrNotFound
}

func (m *memClubStore) List(_ context.Context) ([]club.Club, error) {
	return append([]club.Club(nil), m.clubs...), nil
}

func (m *memClubStore) Save(_ context.Context, c club.Club) (int64, error) {
	if c.ID == 0 {
		c.ID = int64(len(m.clubs) + 1)
		m.clubs = append(m.clubs, c)
		return c.ID, nil
	}
	for i := range m.clubs {
		if m.clubs[i].ID == c.ID {
			m.clubs[i] = c
		}
	}
	return c.ID, nil
}

// memClaseStore is an in-memory clase store.
type memClaseStore struct {
	clases []clase.Clase
}

func (m *memClaseStore) GetByNombre(_ context.Context, nombre string, clubID int64) (clase.Clase, error) {
	var shared *clase.Clase
	for i, c := range m.clases {
		if !strings.EqualFold(c.Nombre, nombre) {
			continue
		}
		if c.ClubID == clubID && clubID != 0 {
			return c, nil
		}
		if c.IsShared() {
			shared = &m.clases[i]
		}
	}
	if shared != nil {
		return *shared, nil
	}
	return clase.Clase{}, clase.ErrNotFound
}

func (m *memClaseStore) ListForClub(_ context.Context, clubID int64) ([]clase.Clase, error) {
	var out []clase.Clase
	for _, c := range m.clases {
		if c.IsShared() || c.ClubID == clubID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memClaseStore) Save(_ context.Context, c clase.Clase) (int64, error) {
	c.ID = int64(len(m.clases) + 1)
	m.clases = append(m.clases, c)
	return c.ID, nil
}

// memRequisitoStore is an in-memory requisito store.
type memRequisitoStore struct {
	reqs    []requisito.Requirement
	listErr error
}

func (m *memRequisitoStore) GetByID(_ context.Context, id int64) (requisito.Requirement, error) {
	for _, r := range m.reqs {
		if r.ID == id {
			return r, nil
		}
	}
	return requisito.Requirement{}, storage.ErrNotFound
}

func (m *memRequisitoStore) ListByClase(_ context.Context, claseID int64) ([]requisito.Requirement, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []requisito.Requirement
	for _, r := range m.reqs {
		if r.ClaseID == claseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequisitoStore) Save(_ context.Context, r requisito.Requirement) (int64, error) {
	r.ID = int64(len(m.reqs) + 1)
	m.reqs = append(m.reqs, r)
	return r.ID, nil
}

// memConquistadorStore is an in-memory member store.
type memConquistadorStore struct {
	members map[int64]conquistador.Conquistador
	nextID  int64
	deleted []int64
}

func newMemConquistadorStore(members ...conquistador.Conquistador) *memConquistadorStore {
	m := &memConquistadorStore{members: make(map[int64]conquistador.Conquistador)}
	for _, c := range members {
		m.members[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *memConquistadorStore) GetByID(_ context.Context, id int64) (conquistador.Conquistador, error) {
	c, ok := m.members[id]
	if !ok {
		return conquistador.Conquistador{}, conquistador.ErrNotFound
	}
	return c, nil
}

func (m *memConquistadorStore) Create(_ context.Context, c conquistador.Conquistador) (conquistador.Conquistador, error) {
	m.nextID++
	c.ID = m.nextID
	m.members[c.ID] = c
	return c, nil
}

func (m *memConquistadorStore) UpdateNombre(_ context.Context, id int64, nombre string) error {
	c, ok := m.members[id]
	if !ok {
		return conquistador.ErrNotFound
	}
	c.Nombre = nombre
	m.members[id] = c
	return nil
}

func (m *memConquistadorStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.members[id]; !ok {
		return conquistador.ErrNotFound
	}
	delete(m.members, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// memProgresoStore keeps one record per pair.
type memProgresoStore struct {
	records   []progreso.Record
	upsertErr error
}

func (m *memProgresoStore) ListByConquistador(_ context.Context, conquistadorID int64) ([]progreso.Record, error) {
	var out []progreso.Record
	for _, r := range m.records {
		if r.ConquistadorID == conquistadorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memProgresoStore) Upsert(_ context.Context, r progreso.Record) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for i := range m.records {
		if m.records[i].ConquistadorID == r.ConquistadorID && m.records[i].RequisitoID == r.RequisitoID {
			m.records[i] = r
			return nil
		}
	}
	m.records = append(m.records, r)
	return nil
}

// memAvisos records claimed notices.
type memAvisos struct {
	claimed  map[[2]int64]bool
	released int
}

func newMemAvisos() *memAvisos {
	return &memAvisos{claimed: make(map[[2]int64]bool)}
}

func (m *memAvisos) Claim(_ context.Context, conquistadorID, claseID int64) (bool, error) {
	k := [2]int64{conquistadorID, claseID}
	if m.claimed[k] {
		return false, nil
	}
	m.claimed[k] = true
	return true, nil
}

func (m *memAvisos) Release(_ context.Context, conquistadorID, claseID int64) error {
	delete(m.claimed, [2]int64{conquistadorID, claseID})
	m.released++
	return nil
}

var errStoreDown = errors.New("store down")
