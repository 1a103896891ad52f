package requisito

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clubes/internal/adapters/storage"
	domain "clubes/internal/domain/requisito"
)

const selectRequisito = "SELECT id, clase_id, titulo, tipo, categoria, orden, descripcion FROM requisito"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new requisito store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Requirement by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Requirement, error) {
	r, err := scanRequisito(s.db.QueryRowContext(ctx, selectRequisito+" WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Requirement{}, fmt.Errorf("requisito %d: %w", id, storage.ErrNotFound)
	}
	return r, err
}

// ListByClase returns a class's requirements in storage order.
// Display ordering is applied by the caller with domain.Sort.
func (s *SQLiteStore) ListByClase(ctx context.Context, claseID int64) ([]domain.Requirement, error) {
	rows, err := s.db.QueryContext(ctx, selectRequisito+" WHERE clase_id = ? ORDER BY id", claseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Requirement{}
	for rows.Next() {
		r, err := scanRequisito(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountByClase returns how many requirements a class has.
func (s *SQLiteStore) CountByClase(ctx context.Context, claseID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM requisito WHERE clase_id = ?", claseID).Scan(&n)
	return n, err
}

// Save inserts a new requirement when ID is zero, otherwise upserts it by ID.
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Requirement) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var res sql.Result
	if entity.ID == 0 {
		res, err = tx.ExecContext(ctx,
			"INSERT INTO requisito (clase_id, titulo, tipo, categoria, orden, descripcion) VALUES (?, ?, ?, ?, ?, ?)",
			entity.ClaseID, entity.Titulo, entity.Tipo, entity.Categoria, entity.Orden, entity.Descripcion)
	} else {
		res, err = tx.ExecContext(ctx,
			`INSERT INTO requisito (id, clase_id, titulo, tipo, categoria, orden, descripcion) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET clase_id=excluded.clase_id, titulo=excluded.titulo, tipo=excluded.tipo,
			categoria=excluded.categoria, orden=excluded.orden, descripcion=excluded.descripcion`,
			entity.ID, entity.ClaseID, entity.Titulo, entity.Tipo, entity.Categoria, entity.Orden, entity.Descripcion)
	}
	if err != nil {
		return 0, err
	}
	id := entity.ID
	if id == 0 {
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

func scanRequisito(scan func(dest ...any) error) (domain.Requirement, error) {
	var r domain.Requirement
	if err := scan(&r.ID, &r.ClaseID, &r.Titulo, &r.Tipo, &r.Categoria, &r.Orden, &r.Descripcion); err != nil {
		return domain.Requirement{}, err
	}
	return r, nil
}
