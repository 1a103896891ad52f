package conquistador

import (
	"errors"
	"fmt"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNombreLength = 100
)

// Domain errors
var (
	ErrEmptyNombre = errors.New("el nombre no puede estar vacío")
	ErrEmptyClase  = errors.New("la clase no puede estar vacía")
	ErrInvalidClub = errors.New("club_id inválido")
	ErrNotFound    = errors.New("conquistador no encontrado")
)

// Conquistador is a club member enrolled in exactly one class.
// Clase holds the class name, not its id.
type Conquistador struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Clase  string `json:"clase"`
	ClubID int64  `json:"club_id"`
}

// Validate checks if the Conquistador has valid data.
// PRE: Conquistador struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Conquistador) Validate() error {
	if strings.TrimSpace(c.Nombre) == "" {
		return ErrEmptyNombre
	}
	if len(c.Nombre) > MaxNombreLength {
		return fmt.Errorf("el nombre no puede exceder %d caracteres", MaxNombreLength)
	}
	if strings.TrimSpace(c.Clase) == "" {
		return ErrEmptyClase
	}
	if c.ClubID <= 0 {
		return ErrInvalidClub
	}
	return nil
}

// Normalize trims surrounding whitespace from user-entered fields.
// POST: Nombre and Clase are trimmed
func (c *Conquistador) Normalize() {
	c.Nombre = strings.TrimSpace(c.Nombre)
	c.Clase = strings.TrimSpace(c.Clase)
}
