package requisito

import (
	"errors"
	"sort"
	"strings"
)

// Tier constants
const (
	TipoRegular  = "regular"
	TipoAvanzada = "avanzada"
)

// MaxTituloLength caps requirement titles.
const MaxTituloLength = 200

// CategoryPriority is the fixed display order of requirement categories.
var CategoryPriority = []string{
	"Generales",
	"Descubrimiento espiritual",
	"Sirviendo a los demás",
	"Desarrollo de la amistad",
	"Salud y aptitud física",
	"Organización y liderazgo",
	"Estudio de la naturaleza",
	"Arte de acampar",
	"Estilo de vida",
}

// Domain errors
var (
	ErrEmptyTitulo = errors.New("el requisito necesita un título")
	ErrInvalidTipo = errors.New("tipo debe ser 'regular' o 'avanzada'")
)

// Requirement is one curriculum item of a class.
type Requirement struct {
	ID          int64  `json:"id"`
	ClaseID     int64  `json:"clase_id"`
	Titulo      string `json:"titulo"`
	Tipo        string `json:"tipo"`
	Categoria   string `json:"categoria"`
	Orden       int    `json:"orden"`
	Descripcion string `json:"descripcion,omitempty"`
}

// Validate checks if the Requirement has valid data.
// PRE: Requirement struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Requirement) Validate() error {
	if strings.TrimSpace(r.Titulo) == "" {
		return ErrEmptyTitulo
	}
	if len(r.Titulo) > MaxTituloLength {
		return errors.New("el título no puede exceder 200 caracteres")
	}
	if r.Tipo != TipoRegular && r.Tipo != TipoAvanzada {
		return ErrInvalidTipo
	}
	return nil
}

// IsAvanzada reports whether the requirement belongs to the advanced tier.
func (r Requirement) IsAvanzada() bool {
	return r.Tipo == TipoAvanzada
}

// CategoryIndex returns the position of a category in CategoryPriority, or -1 when unknown.
// Unknown categories therefore sort ahead of every known one within a tier.
func CategoryIndex(categoria string) int {
	for i, c := range CategoryPriority {
		if c == categoria {
			return i
		}
	}
	return -1
}

// tierRank places regular first and avanzada second. Any other tipo sorts last.
func tierRank(tipo string) int {
	switch tipo {
	case TipoRegular:
		return 0
	case TipoAvanzada:
		return 1
	}
	return 2
}

// Less orders two requirements: regular before avanzada before any other tipo,
// then category priority, then orden. Distinct unknown tipos order by name.
func Less(a, b Requirement) bool {
	if a.Tipo != b.Tipo {
		ra, rb := tierRank(a.Tipo), tierRank(b.Tipo)
		if ra != rb {
			return ra < rb
		}
		return a.Tipo < b.Tipo
	}
	catA, catB := CategoryIndex(a.Categoria), CategoryIndex(b.Categoria)
	if catA != catB {
		return catA < catB
	}
	return a.Orden < b.Orden
}

// Sort orders a catalog in place. The sort is stable.
func Sort(reqs []Requirement) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return Less(reqs[i], reqs[j])
	})
}

// CountByTipo returns the number of requirements in the given tier.
func CountByTipo(reqs []Requirement, tipo string) int {
	n := 0
	for _, r := range reqs {
		if r.Tipo == tipo {
			n++
		}
	}
	return n
}
