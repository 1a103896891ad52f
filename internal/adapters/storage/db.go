package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by stores when a lookup matches no row.
var ErrNotFound = errors.New("registro no encontrado")

// migration is one step of the schema history. Steps are applied in order, each in its own transaction.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS club (
				id INTEGER PRIMARY KEY,
				nombre TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS account (
				id INTEGER PRIMARY KEY,
				usuario TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				rol TEXT NOT NULL,
				club_id INTEGER REFERENCES club(id),
				nombre TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS clase (
				id INTEGER PRIMARY KEY,
				nombre TEXT NOT NULL,
				club_id INTEGER REFERENCES club(id) ON DELETE CASCADE,
				orden INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_clase_nombre_club ON clase (nombre, IFNULL(club_id, 0))`,
			`CREATE TABLE IF NOT EXISTS requisito (
				id INTEGER PRIMARY KEY,
				clase_id INTEGER NOT NULL REFERENCES clase(id) ON DELETE CASCADE,
				titulo TEXT NOT NULL,
				tipo TEXT NOT NULL CHECK (tipo IN ('regular', 'avanzada')),
				categoria TEXT NOT NULL DEFAULT '',
				orden INTEGER NOT NULL DEFAULT 0,
				descripcion TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_requisito_clase ON requisito (clase_id)`,
			`CREATE TABLE IF NOT EXISTS conquistador (
				id INTEGER PRIMARY KEY,
				nombre TEXT NOT NULL,
				clase TEXT NOT NULL,
				club_id INTEGER NOT NULL REFERENCES club(id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_conquistador_club_clase ON conquistador (club_id, clase)`,
			`CREATE TABLE IF NOT EXISTS progreso (
				conquistador_id INTEGER NOT NULL REFERENCES conquistador(id) ON DELETE CASCADE,
				requisito_id INTEGER NOT NULL REFERENCES requisito(id) ON DELETE CASCADE,
				cumplido INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (conquistador_id, requisito_id)
			)`,
		},
	},
	{
		version: 2,
		name:    "class completion notices",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS aviso (
				conquistador_id INTEGER NOT NULL REFERENCES conquistador(id) ON DELETE CASCADE,
				clase_id INTEGER NOT NULL REFERENCES clase(id) ON DELETE CASCADE,
				enviado_at TEXT NOT NULL,
				PRIMARY KEY (conquistador_id, clase_id)
			)`,
		},
	},
	{
		// Progress outlives its requisito; only a member delete removes it.
		version: 3,
		name:    "progreso keeps entries of removed requisitos",
		stmts: []string{
			`CREATE TABLE progreso_v3 (
				conquistador_id INTEGER NOT NULL REFERENCES conquistador(id) ON DELETE CASCADE,
				requisito_id INTEGER NOT NULL,
				cumplido INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (conquistador_id, requisito_id)
			)`,
			`INSERT INTO progreso_v3 (rowid, conquistador_id, requisito_id, cumplido, updated_at)
				SELECT rowid, conquistador_id, requisito_id, cumplido, updated_at FROM progreso`,
			`DROP TABLE progreso`,
			`ALTER TABLE progreso_v3 RENAME TO progreso`,
		},
	},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for an untracked database.
// PRE: db is a valid database connection
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: every pending migration is applied and recorded in schema_version
// INVARIANT: running MigrateDB on an up-to-date database is a no-op
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
