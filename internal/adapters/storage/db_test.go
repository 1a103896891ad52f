package storage

import (
	"database/sql"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates a single-connection in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var expectedTables = []string{
	"account",
	"aviso",
	"clase",
	"club",
	"conquistador",
	"progreso",
	"requisito",
	"schema_version",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}
	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Fatalf("got tables %v, want %v", tables, expectedTables)
	}
	for i, want := range expectedTables {
		if tables[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, tables[i], want)
		}
	}
}

// TestMigrateDB_Idempotent verifies a second run is a no-op.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO club (nombre) VALUES ('Orión')"); err != nil {
		t.Fatalf("insert club: %v", err)
	}
	if err := MigrateDB(db); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows); err != nil {
		t.Fatalf("count schema_version: %v", err)
	}
	if rows != len(migrations) {
		t.Errorf("schema_version rows = %d, want %d", rows, len(migrations))
	}
	var nombre string
	if err := db.QueryRow("SELECT nombre FROM club").Scan(&nombre); err != nil || nombre != "Orión" {
		t.Errorf("club data lost after second migration: %q, %v", nombre, err)
	}
}

// TestMigrateDB_VersionProgression verifies SchemaVersion is 0 before migrating.
func TestMigrateDB_VersionProgression(t *testing.T) {
	db := openTestDB(t)

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}
	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	if v, _ = SchemaVersion(db); v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_Constraints verifies the composite key, tier check and member cascade.
func TestMigrateDB_Constraints(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}
	mustExec("INSERT INTO club (id, nombre) VALUES (1, 'Orión')")
	mustExec("INSERT INTO clase (id, nombre) VALUES (1, 'Amigo')")
	mustExec("INSERT INTO requisito (id, clase_id, titulo, tipo) VALUES (7, 1, 'Nudos', 'regular')")
	mustExec("INSERT INTO conquistador (id, nombre, clase, club_id) VALUES (42, 'Ana', 'Amigo', 1)")
	mustExec("INSERT INTO progreso (conquistador_id, requisito_id, cumplido, updated_at) VALUES (42, 7, 1, 'now')")

	if _, err := db.Exec("INSERT INTO progreso (conquistador_id, requisito_id, cumplido, updated_at) VALUES (42, 7, 0, 'now')"); err == nil {
		t.Error("duplicate progreso pair should violate the primary key")
	}
	if _, err := db.Exec("INSERT INTO requisito (clase_id, titulo, tipo) VALUES (1, 'x', 'experto')"); err == nil {
		t.Error("unknown tipo should violate the check constraint")
	}
	if _, err := db.Exec("INSERT INTO clase (nombre) VALUES ('Amigo')"); err == nil {
		t.Error("duplicate shared class name should violate the unique index")
	}
	mustExec("INSERT INTO clase (nombre, club_id) VALUES ('Amigo', 1)")

	mustExec("DELETE FROM requisito WHERE id = 7")
	var n int
	db.QueryRow("SELECT COUNT(*) FROM progreso").Scan(&n)
	if n != 1 {
		t.Errorf("progreso rows after requisito delete = %d, want 1", n)
	}

	mustExec("DELETE FROM conquistador WHERE id = 42")
	db.QueryRow("SELECT COUNT(*) FROM progreso").Scan(&n)
	if n != 0 {
		t.Errorf("progreso rows after member delete = %d, want 0", n)
	}
}

// TestMigrateDB_ProgresoRebuildKeepsRows verifies upgrading from version 2 preserves progress and its order.
func TestMigrateDB_ProgresoRebuildKeepsRows(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		t.Fatalf("create schema_version: %v", err)
	}
	for _, m := range migrations[:2] {
		if err := applyMigration(db, m); err != nil {
			t.Fatalf("apply %d: %v", m.version, err)
		}
	}
	for _, q := range []string{
		"INSERT INTO club (id, nombre) VALUES (1, 'Orión')",
		"INSERT INTO clase (id, nombre) VALUES (1, 'Amigo')",
		"INSERT INTO requisito (id, clase_id, titulo, tipo) VALUES (7, 1, 'Nudos', 'regular'), (8, 1, 'Fogata', 'regular')",
		"INSERT INTO conquistador (id, nombre, clase, club_id) VALUES (42, 'Ana', 'Amigo', 1)",
		"INSERT INTO progreso (conquistador_id, requisito_id, cumplido, updated_at) VALUES (42, 8, 1, 'a'), (42, 7, 0, 'b')",
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}

	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	rows, err := db.Query("SELECT requisito_id FROM progreso WHERE conquistador_id = 42 ORDER BY rowid")
	if err != nil {
		t.Fatalf("query progreso: %v", err)
	}
	defer rows.Close()
	var got []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, id)
	}
	if len(got) != 2 || got[0] != 8 || got[1] != 7 {
		t.Errorf("progreso order after rebuild = %v, want [8 7]", got)
	}
}
