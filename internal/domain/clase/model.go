package clase

import (
	"errors"
	"fmt"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNombreLength = 80
)

// Domain errors
var (
	ErrEmptyNombre = errors.New("la clase necesita un nombre")
	ErrDuplicate   = errors.New("ya existe una clase con ese nombre")
	ErrNotFound    = errors.New("clase no encontrada")
)

// Clase is a progressive class (Amigo, Compañero, ...).
// ClubID is zero for the shared catalog visible to every club.
type Clase struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	ClubID int64  `json:"club_id,omitempty"`
	Orden  int    `json:"orden"`
}

// Validate checks if the Clase has valid data.
// PRE: Clase struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Clase) Validate() error {
	if strings.TrimSpace(c.Nombre) == "" {
		return ErrEmptyNombre
	}
	if len(c.Nombre) > MaxNombreLength {
		return fmt.Errorf("el nombre de la clase no puede exceder %d caracteres", MaxNombreLength)
	}
	return nil
}

// IsShared reports whether the class belongs to the shared catalog.
func (c Clase) IsShared() bool {
	return c.ClubID == 0
}
