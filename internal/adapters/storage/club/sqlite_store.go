package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubes/internal/adapters/storage"
	domain "clubes/internal/domain/club"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new club store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Club by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, nombre, email FROM club WHERE id = ?", id)
	c, err := scanClub(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Club{}, fmt.Errorf("club %d: %w", id, storage.ErrNotFound)
	}
	return c, err
}

// GetByNombre retrieves a Club by its unique name.
func (s *SQLiteStore) GetByNombre(ctx context.Context, nombre string) (domain.Club, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, nombre, email FROM club WHERE nombre = ?", nombre)
	c, err := scanClub(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Club{}, fmt.Errorf("club %q: %w", nombre, storage.ErrNotFound)
	}
	return c, err
}

// List returns every club ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Club, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, nombre, email FROM club ORDER BY nombre")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Club{}
	for rows.Next() {
		c, err := scanClub(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Save inserts a new club when ID is zero, otherwise updates it.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Club) (int64, error) {
	if entity.ID == 0 {
		res, err := s.db.ExecContext(ctx, "INSERT INTO club (nombre, email) VALUES (?, ?)", entity.Nombre, entity.Email)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO club (id, nombre, email) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET nombre=excluded.nombre, email=excluded.email",
		entity.ID, entity.Nombre, entity.Email)
	return entity.ID, err
}

func scanClub(scan func(dest ...any) error) (domain.Club, error) {
	var c domain.Club
	if err := scan(&c.ID, &c.Nombre, &c.Email); err != nil {
		return domain.Club{}, err
	}
	return c, nil
}
