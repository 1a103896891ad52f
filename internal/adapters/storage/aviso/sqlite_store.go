package aviso

import (
	"context"
	"time"

	"clubes/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new aviso store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Claim inserts the pair unless it already exists.
// POST: returns true only for the call that created the row
func (s *SQLiteStore) Claim(ctx context.Context, conquistadorID, claseID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO aviso (conquistador_id, clase_id, enviado_at) VALUES (?, ?, ?) ON CONFLICT(conquistador_id, clase_id) DO NOTHING",
		conquistadorID, claseID, storage.FormatTime(time.Now()))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Release deletes the claim for the pair.
func (s *SQLiteStore) Release(ctx context.Context, conquistadorID, claseID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM aviso WHERE conquistador_id = ? AND clase_id = ?", conquistadorID, claseID)
	return err
}
