package conquistador

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubes/internal/adapters/storage"
	domain "clubes/internal/domain/conquistador"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new conquistador store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Conquistador by its ID.
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Conquistador, error) {
	var c domain.Conquistador
	err := s.db.QueryRowContext(ctx, "SELECT id, nombre, clase, club_id FROM conquistador WHERE id = ?", id).
		Scan(&c.ID, &c.Nombre, &c.Clase, &c.ClubID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conquistador{}, fmt.Errorf("conquistador %d: %w", id, domain.ErrNotFound)
	}
	return c, err
}

// ListByClase returns the members of a class within one club, ordered by name.
func (s *SQLiteStore) ListByClase(ctx context.Context, claseNombre string, clubID int64) ([]domain.Conquistador, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nombre, clase, club_id FROM conquistador WHERE clase = ? AND club_id = ? ORDER BY nombre COLLATE NOCASE, id",
		claseNombre, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Conquistador{}
	for rows.Next() {
		var c domain.Conquistador
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Clase, &c.ClubID); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Create inserts a new member and returns it with its assigned ID.
// PRE: value has been validated
func (s *SQLiteStore) Create(ctx context.Context, value domain.Conquistador) (domain.Conquistador, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO conquistador (nombre, clase, club_id) VALUES (?, ?, ?)",
		value.Nombre, value.Clase, value.ClubID)
	if err != nil {
		return domain.Conquistador{}, err
	}
	value.ID, err = res.LastInsertId()
	return value, err
}

// UpdateNombre renames a member.
// POST: Returns an error wrapping domain.ErrNotFound when no row matched
func (s *SQLiteStore) UpdateNombre(ctx context.Context, id int64, nombre string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE conquistador SET nombre = ? WHERE id = ?", nombre, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// Delete removes a member together with its progress and notices.
// POST: no progreso row references id
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM progreso WHERE conquistador_id = ?",
		"DELETE FROM aviso WHERE conquistador_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM conquistador WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := requireRow(res, id); err != nil {
		return err
	}
	return tx.Commit()
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("conquistador %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
