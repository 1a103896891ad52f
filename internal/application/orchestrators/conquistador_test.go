package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clubes/internal/domain/conquistador"
	"clubes/internal/domain/session"
)

var (
	directorOrion = Actor{AccountID: 1, Rol: session.RoleDirector, ClubID: 1}
	distrital     = Actor{AccountID: 9, Rol: session.RoleDistrital}
)

// TestExecuteCreateConquistador tests enrolment rules and club scoping.
func TestExecuteCreateConquistador(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateConquistadorInput
		wantErr error
	}{
		{"director own club", CreateConquistadorInput{Actor: directorOrion, Nombre: "  Ana  ", Clase: "Amigo", ClubID: 1}, nil},
		{"distrital any club", CreateConquistadorInput{Actor: distrital, Nombre: "Luis", Clase: "Amigo", ClubID: 2}, nil},
		{"director other club", CreateConquistadorInput{Actor: directorOrion, Nombre: "Luis", Clase: "Amigo", ClubID: 2}, ErrForbidden},
		{"empty nombre", CreateConquistadorInput{Actor: directorOrion, Nombre: "   ", Clase: "Amigo", ClubID: 1}, conquistador.ErrEmptyNombre},
		{"empty clase", CreateConquistadorInput{Actor: directorOrion, Nombre: "Ana", ClubID: 1}, conquistador.ErrEmptyClase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemConquistadorStore()
			c, err := ExecuteCreateConquistador(context.Background(), tt.input, ConquistadorDeps{ConquistadorStore: store})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(store.members) != 0 {
					t.Error("rejected member should not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.ID == 0 {
				t.Error("created member should have an id")
			}
			if stored := store.members[c.ID]; stored.Nombre != c.Nombre || c.Nombre != strings.TrimSpace(tt.input.Nombre) {
				t.Errorf("stored nombre = %q, returned %q", stored.Nombre, c.Nombre)
			}
		})
	}
}

// TestExecuteRenameConquistador tests renaming with scoping and validation.
func TestExecuteRenameConquistador(t *testing.T) {
	ana := conquistador.Conquistador{ID: 42, Nombre: "Ana", Clase: "Amigo", ClubID: 1}

	t.Run("renames", func(t *testing.T) {
		store := newMemConquistadorStore(ana)
		c, err := ExecuteRenameConquistador(context.Background(),
			RenameConquistadorInput{Actor: directorOrion, ConquistadorID: 42, Nombre: " Ana María "},
			ConquistadorDeps{ConquistadorStore: store})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Nombre != "Ana María" || store.members[42].Nombre != "Ana María" {
			t.Errorf("nombre = %q, stored %q", c.Nombre, store.members[42].Nombre)
		}
	})

	t.Run("empty nombre", func(t *testing.T) {
		store := newMemConquistadorStore(ana)
		_, err := ExecuteRenameConquistador(context.Background(),
			RenameConquistadorInput{Actor: directorOrion, ConquistadorID: 42, Nombre: " "},
			ConquistadorDeps{ConquistadorStore: store})
		if !errors.Is(err, conquistador.ErrEmptyNombre) {
			t.Errorf("error = %v, want ErrEmptyNombre", err)
		}
		if store.members[42].Nombre != "Ana" {
			t.Error("nombre should be unchanged")
		}
	})

	t.Run("other club", func(t *testing.T) {
		store := newMemConquistadorStore(ana)
		other := Actor{AccountID: 2, Rol: session.RoleInstructor, ClubID: 2}
		_, err := ExecuteRenameConquistador(context.Background(),
			RenameConquistadorInput{Actor: other, ConquistadorID: 42, Nombre: "Otra"},
			ConquistadorDeps{ConquistadorStore: store})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := ExecuteRenameConquistador(context.Background(),
			RenameConquistadorInput{Actor: distrital, ConquistadorID: 7, Nombre: "Otra"},
			ConquistadorDeps{ConquistadorStore: newMemConquistadorStore()})
		if !errors.Is(err, conquistador.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

// TestExecuteDeleteConquistador tests deletion with scoping.
func TestExecuteDeleteConquistador(t *testing.T) {
	ana := conquistador.Conquistador{ID: 42, Nombre: "Ana", Clase: "Amigo", ClubID: 1}

	store := newMemConquistadorStore(ana)
	other := Actor{AccountID: 3, Rol: session.RoleDirector, ClubID: 2}
	err := ExecuteDeleteConquistador(context.Background(), DeleteConquistadorInput{Actor: other, ConquistadorID: 42}, ConquistadorDeps{ConquistadorStore: store})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
	if _, ok := store.members[42]; !ok {
		t.Fatal("member should survive a forbidden delete")
	}

	if err := ExecuteDeleteConquistador(context.Background(), DeleteConquistadorInput{Actor: directorOrion, ConquistadorID: 42}, ConquistadorDeps{ConquistadorStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 42 {
		t.Errorf("deleted = %v, want [42]", store.deleted)
	}

	err = ExecuteDeleteConquistador(context.Background(), DeleteConquistadorInput{Actor: directorOrion, ConquistadorID: 42}, ConquistadorDeps{ConquistadorStore: store})
	if !errors.Is(err, conquistador.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
