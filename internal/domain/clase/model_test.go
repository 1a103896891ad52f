package clase_test

import (
	"strings"
	"testing"

	"clubes/internal/domain/clase"
)

func TestClase_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       clase.Clase
		wantErr bool
	}{
		{"shared class", clase.Clase{Nombre: "Amigo"}, false},
		{"club class", clase.Clase{Nombre: "Guía Mayor", ClubID: 4}, false},
		{"blank", clase.Clase{Nombre: "   "}, true},
		{"too long", clase.Clase{Nombre: strings.Repeat("x", 81)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if !(clase.Clase{Nombre: "Amigo"}).IsShared() {
		t.Error("class without club should be shared")
	}
}
