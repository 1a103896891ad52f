package club

import (
	"errors"
	"strings"
)

// DefaultNombre is shown when the club name cannot be resolved.
const DefaultNombre = "Mi Club"

// Domain errors
var (
	ErrEmptyNombre  = errors.New("el club necesita un nombre")
	ErrInvalidEmail = errors.New("el email del club no es válido")
)

// Club is a local club. Email receives class completion notices and may be empty.
type Club struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email,omitempty"`
}

// Validate checks if the Club has valid data.
func (c *Club) Validate() error {
	if strings.TrimSpace(c.Nombre) == "" {
		return ErrEmptyNombre
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
