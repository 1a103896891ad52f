package progreso

import (
	"context"
	"database/sql"
	"time"

	"clubes/internal/adapters/storage"
	domain "clubes/internal/domain/progreso"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new progreso store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByConquistador returns a member's entries in first-recorded order.
func (s *SQLiteStore) ListByConquistador(ctx context.Context, conquistadorID int64) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT conquistador_id, requisito_id, cumplido, updated_at FROM progreso WHERE conquistador_id = ? ORDER BY rowid",
		conquistadorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Record{}
	for rows.Next() {
		var r domain.Record
		var updatedAt sql.NullString
		if err := rows.Scan(&r.ConquistadorID, &r.RequisitoID, &r.Cumplido, &updatedAt); err != nil {
			return nil, err
		}
		r.UpdatedAt = storage.ParseNullTime(updatedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Upsert records the state of one (conquistador, requisito) pair.
// Returns storage.ErrNotFound when the requisito does not exist.
// PRE: both referenced rows exist
// POST: exactly one row exists for the pair, holding value.Cumplido
func (s *SQLiteStore) Upsert(ctx context.Context, value domain.Record) error {
	if value.UpdatedAt.IsZero() {
		value.UpdatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO progreso (conquistador_id, requisito_id, cumplido, updated_at)
		SELECT ?, ?, ?, ? WHERE EXISTS (SELECT 1 FROM requisito WHERE id = ?)
		ON CONFLICT(conquistador_id, requisito_id) DO UPDATE SET cumplido=excluded.cumplido, updated_at=excluded.updated_at`,
		value.ConquistadorID, value.RequisitoID, value.Cumplido, storage.FormatTime(value.UpdatedAt), value.RequisitoID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
