package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubes/internal/adapters/storage"
	domain "clubes/internal/domain/account"
)

const selectAccount = "SELECT id, usuario, password_hash, rol, club_id, nombre, created_at, failed_logins, locked_until FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id > 0
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	return s.getOne(ctx, selectAccount+" WHERE id = ?", id)
}

// GetByUsuario retrieves an Account by login name.
// PRE: usuario is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByUsuario(ctx context.Context, usuario string) (domain.Account, error) {
	return s.getOne(ctx, selectAccount+" WHERE usuario = ?", usuario)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	entity, err := scanAccount(s.db.QueryRowContext(ctx, query, arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account %v: %w", arg, storage.ErrNotFound)
	}
	return entity, err
}

// Save inserts the account when ID is zero, otherwise upserts it by ID.
// PRE: entity has been validated
// POST: Entity is persisted; the stored ID is returned
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}

	fields := []string{"usuario", "password_hash", "rol", "club_id", "nombre", "created_at", "failed_logins", "locked_until"}
	args := []any{
		entity.Usuario,
		entity.PasswordHash,
		entity.Rol,
		storage.NullID(entity.ClubID),
		entity.Nombre,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.FormatTime(entity.LockedUntil),
	}
	if entity.ID != 0 {
		fields = append([]string{"id"}, fields...)
		args = append([]any{entity.ID}, args...)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	updates := []string{
		"usuario=excluded.usuario",
		"password_hash=excluded.password_hash",
		"rol=excluded.rol",
		"club_id=excluded.club_id",
		"nombre=excluded.nombre",
		"failed_logins=excluded.failed_logins",
		"locked_until=excluded.locked_until",
	}

	query := fmt.Sprintf(
		"INSERT INTO account (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)
	res, err := tx.ExecContext(ctx, query, args...)
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

// List retrieves Accounts matching the filter, ordered by usuario.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var qb strings.Builder
	var where []string
	var args []any

	qb.WriteString(selectAccount)
	if filter.Rol != "" {
		where = append(where, "rol = ?")
		args = append(args, filter.Rol)
	}
	if filter.ClubID != 0 {
		where = append(where, "club_id = ?")
		args = append(args, filter.ClubID)
	}
	if len(where) > 0 {
		qb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	qb.WriteString(" ORDER BY usuario")

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var clubID sql.NullInt64
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Usuario,
		&entity.PasswordHash,
		&entity.Rol,
		&clubID,
		&entity.Nombre,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.ClubID = clubID.Int64
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	entity.LockedUntil = storage.ParseNullTime(lockedUntil)
	return entity, nil
}
