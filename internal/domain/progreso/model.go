package progreso

import (
	"errors"
	"math"
	"strconv"
	"time"

	"clubes/internal/domain/requisito"
)

// Domain errors
var (
	ErrInvalidConquistador = errors.New("conquistador_id inválido")
	ErrInvalidRequisito    = errors.New("requisito_id inválido")
)

// Record is the persisted completion state of one (conquistador, requisito) pair.
type Record struct {
	ConquistadorID int64     `json:"conquistador_id"`
	RequisitoID    int64     `json:"requisito_id"`
	Cumplido       bool      `json:"cumplido"`
	UpdatedAt      time.Time `json:"-"`
}

// Validate checks if the Record references valid ids.
func (r *Record) Validate() error {
	if r.ConquistadorID <= 0 {
		return ErrInvalidConquistador
	}
	if r.RequisitoID <= 0 {
		return ErrInvalidRequisito
	}
	return nil
}

// Key identifies a ledger entry. Ids are kept in string form as the client receives them.
type Key struct {
	ConquistadorID string
	RequisitoID    string
}

// Entry is one in-memory ledger row.
type Entry struct {
	ConquistadorID string
	RequisitoID    string
	Cumplido       bool
}

// Key returns the composite key of the entry.
func (e Entry) Key() Key {
	return Key{ConquistadorID: e.ConquistadorID, RequisitoID: e.RequisitoID}
}

// Ledger holds at most one entry per (conquistador, requisito) pair.
// Lookups and upserts are O(1); per-member listing follows insertion order.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	cumplido map[Key]bool
	order    map[string][]string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		cumplido: make(map[Key]bool),
		order:    make(map[string][]string),
	}
}

// Upsert updates the entry in place when its key exists, otherwise appends it.
// POST: exactly one entry exists for e.Key()
func (l *Ledger) Upsert(e Entry) {
	k := e.Key()
	if _, ok := l.cumplido[k]; !ok {
		l.order[k.ConquistadorID] = append(l.order[k.ConquistadorID], k.RequisitoID)
	}
	l.cumplido[k] = e.Cumplido
}

// Cumplido returns the stored state for k and whether an entry exists.
func (l *Ledger) Cumplido(k Key) (bool, bool) {
	v, ok := l.cumplido[k]
	return v, ok
}

// IsCumplido reports whether k has an entry marked fulfilled.
func (l *Ledger) IsCumplido(k Key) bool {
	v, _ := l.Cumplido(k)
	return v
}

// Entries returns a member's entries in insertion order.
func (l *Ledger) Entries(conquistadorID string) []Entry {
	ids := l.order[conquistadorID]
	out := make([]Entry, 0, len(ids))
	for _, rid := range ids {
		k := Key{ConquistadorID: conquistadorID, RequisitoID: rid}
		out = append(out, Entry{ConquistadorID: conquistadorID, RequisitoID: rid, Cumplido: l.cumplido[k]})
	}
	return out
}

// RemoveMember drops every entry owned by the member.
func (l *Ledger) RemoveMember(conquistadorID string) {
	for _, rid := range l.order[conquistadorID] {
		delete(l.cumplido, Key{ConquistadorID: conquistadorID, RequisitoID: rid})
	}
	delete(l.order, conquistadorID)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.cumplido)
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		cumplido: make(map[Key]bool, len(l.cumplido)),
		order:    make(map[string][]string, len(l.order)),
	}
	for k, v := range l.cumplido {
		c.cumplido[k] = v
	}
	for m, ids := range l.order {
		c.order[m] = append([]string(nil), ids...)
	}
	return c
}

// Equal reports whether two ledgers hold the same entries in the same per-member order.
func (l *Ledger) Equal(o *Ledger) bool {
	if l.Len() != o.Len() || len(l.order) != len(o.order) {
		return false
	}
	for k, v := range l.cumplido {
		ov, ok := o.cumplido[k]
		if !ok || ov != v {
			return false
		}
	}
	for m, ids := range l.order {
		oids := o.order[m]
		if len(ids) != len(oids) {
			return false
		}
		for i := range ids {
			if ids[i] != oids[i] {
				return false
			}
		}
	}
	return true
}

// Summary is the per-tier completion of one member, in whole percent.
type Summary struct {
	Regular  int `json:"regular"`
	Avanzada int `json:"avanzada"`
}

// Percent normalizes done/total to a rounded percentage. A zero total yields 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// Percentages computes a member's completion per tier against the current catalog.
// Entries whose requisito is not in catalog are ignored.
func Percentages(l *Ledger, conquistadorID string, catalog []requisito.Requirement) Summary {
	var regDone, avzDone int
	for _, r := range catalog {
		if !l.IsCumplido(Key{ConquistadorID: conquistadorID, RequisitoID: strconv.FormatInt(r.ID, 10)}) {
			continue
		}
		switch r.Tipo {
		case requisito.TipoRegular:
			regDone++
		case requisito.TipoAvanzada:
			avzDone++
		}
	}
	return Summary{
		Regular:  Percent(regDone, requisito.CountByTipo(catalog, requisito.TipoRegular)),
		Avanzada: Percent(avzDone, requisito.CountByTipo(catalog, requisito.TipoAvanzada)),
	}
}

// RegularComplete reports whether every regular requisito in catalog is fulfilled by records.
// A catalog without regular requisitos is never complete.
func RegularComplete(records []Record, catalog []requisito.Requirement) bool {
	done := make(map[int64]bool, len(records))
	for _, r := range records {
		if r.Cumplido {
			done[r.RequisitoID] = true
		}
	}
	total := 0
	for _, r := range catalog {
		if r.Tipo != requisito.TipoRegular {
			continue
		}
		total++
		if !done[r.ID] {
			return false
		}
	}
	return total > 0
}
