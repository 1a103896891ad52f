package clase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clubes/internal/adapters/storage"
	domain "clubes/internal/domain/clase"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new clase store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Clase by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Clase, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, nombre, club_id, orden FROM clase WHERE id = ?", id)
	c, err := scanClase(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Clase{}, fmt.Errorf("clase %d: %w", id, storage.ErrNotFound)
	}
	return c, err
}

// GetByNombre resolves a class name as seen by clubID.
// A class owned by the club takes precedence over a shared class of the same name.
func (s *SQLiteStore) GetByNombre(ctx context.Context, nombre string, clubID int64) (domain.Clase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, nombre, club_id, orden FROM clase
		WHERE nombre = ? AND (club_id IS NULL OR club_id = ?)
		ORDER BY club_id IS NULL LIMIT 1`,
		nombre, clubID)
	c, err := scanClase(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Clase{}, fmt.Errorf("clase %q: %w", nombre, storage.ErrNotFound)
	}
	return c, err
}

// ListForClub returns the shared classes plus the club's own, ordered by orden then nombre.
// clubID 0 lists only shared classes.
func (s *SQLiteStore) ListForClub(ctx context.Context, clubID int64) ([]domain.Clase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nombre, club_id, orden FROM clase
		WHERE club_id IS NULL OR club_id = ?
		ORDER BY orden, nombre`,
		clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Clase{}
	for rows.Next() {
		c, err := scanClase(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Save inserts a new class when ID is zero, otherwise updates it.
// Returns domain.ErrDuplicate when the name is already taken in the same scope.
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Clase) (int64, error) {
	var res sql.Result
	var err error
	if entity.ID == 0 {
		res, err = s.db.ExecContext(ctx,
			"INSERT INTO clase (nombre, club_id, orden) VALUES (?, ?, ?)",
			entity.Nombre, storage.NullID(entity.ClubID), entity.Orden)
	} else {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO clase (id, nombre, club_id, orden) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET nombre=excluded.nombre, club_id=excluded.club_id, orden=excluded.orden`,
			entity.ID, entity.Nombre, storage.NullID(entity.ClubID), entity.Orden)
	}
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, domain.ErrDuplicate
		}
		return 0, err
	}
	if entity.ID != 0 {
		return entity.ID, nil
	}
	return res.LastInsertId()
}

func scanClase(scan func(dest ...any) error) (domain.Clase, error) {
	var c domain.Clase
	var clubID sql.NullInt64
	if err := scan(&c.ID, &c.Nombre, &clubID, &c.Orden); err != nil {
		return domain.Clase{}, err
	}
	c.ClubID = clubID.Int64
	return c, nil
}
