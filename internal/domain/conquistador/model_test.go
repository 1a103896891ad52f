package conquistador_test

import (
	"errors"
	"strings"
	"testing"

	"clubes/internal/domain/conquistador"
)

// TestConquistador_Validate tests validation of Conquistador.
func TestConquistador_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       conquistador.Conquistador
		wantErr error
	}{
		{"valid", conquistador.Conquistador{Nombre: "Ana", Clase: "Amigo", ClubID: 1}, nil},
		{"blank nombre", conquistador.Conquistador{Nombre: " ", Clase: "Amigo", ClubID: 1}, conquistador.ErrEmptyNombre},
		{"missing clase", conquistador.Conquistador{Nombre: "Ana", ClubID: 1}, conquistador.ErrEmptyClase},
		{"missing club", conquistador.Conquistador{Nombre: "Ana", Clase: "Amigo"}, conquistador.ErrInvalidClub},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	long := conquistador.Conquistador{Nombre: strings.Repeat("a", 101), Clase: "Amigo", ClubID: 1}
	if err := long.Validate(); err == nil {
		t.Error("Validate() should reject names over 100 characters")
	}
}

// TestConquistador_Normalize tests whitespace trimming.
func TestConquistador_Normalize(t *testing.T) {
	c := conquistador.Conquistador{Nombre: "  Ana Pérez ", Clase: " Amigo"}
	c.Normalize()
	if c.Nombre != "Ana Pérez" || c.Clase != "Amigo" {
		t.Errorf("Normalize() = %q/%q", c.Nombre, c.Clase)
	}
}
