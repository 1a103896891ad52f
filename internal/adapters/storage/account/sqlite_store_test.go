package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubes/internal/adapters/storage"
	store "clubes/internal/adapters/storage/account"
	"clubes/internal/adapters/storage/storagetest"
	domain "clubes/internal/domain/account"
)

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	db := storagetest.Open(t)
	clubID := storagetest.Exec(t, db, "INSERT INTO club (nombre) VALUES ('Orión')")
	s := store.NewSQLiteStore(db)
	ctx := context.Background()

	id, err := s.Save(ctx, domain.Account{Usuario: "dir1", PasswordHash: "h", Rol: "director", ClubID: clubID, Nombre: "Directora"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == 0 {
		t.Fatal("Save should return the new id")
	}
	if _, err := s.Save(ctx, domain.Account{Usuario: "dist1", PasswordHash: "h", Rol: "distrital"}); err != nil {
		t.Fatalf("Save distrital: %v", err)
	}

	got, err := s.GetByUsuario(ctx, "dir1")
	if err != nil {
		t.Fatalf("GetByUsuario: %v", err)
	}
	if got.ID != id || got.ClubID != clubID || got.Nombre != "Directora" || got.CreatedAt.IsZero() {
		t.Errorf("GetByUsuario = %+v", got)
	}

	dist, _ := s.GetByUsuario(ctx, "dist1")
	if dist.ClubID != 0 {
		t.Errorf("distrital ClubID = %d, want 0", dist.ClubID)
	}

	n, _ := s.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
	directors, _ := s.List(ctx, store.ListFilter{Rol: "director"})
	if len(directors) != 1 {
		t.Errorf("List(director) = %d, want 1", len(directors))
	}
}

func TestSQLiteStore_UpdateLockout(t *testing.T) {
	db := storagetest.Open(t)
	s := store.NewSQLiteStore(db)
	ctx := context.Background()

	id, err := s.Save(ctx, domain.Account{Usuario: "dist1", Rol: "distrital"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	acct, _ := s.GetByID(ctx, id)
	acct.FailedLogins = 5
	acct.LockedUntil = time.Now().Add(time.Minute)
	if _, err := s.Save(ctx, acct); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, _ := s.GetByID(ctx, id)
	if got.FailedLogins != 5 || !got.IsLocked() {
		t.Errorf("lockout not persisted: %+v", got)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1 after update", n)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := store.NewSQLiteStore(storagetest.Open(t))
	_, err := s.GetByUsuario(context.Background(), "nadie")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
