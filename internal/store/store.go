package store

import (
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragma is a connection setting applied on Open. want is the value
// PRAGMA reports back once it is set.
type pragma struct {
	name, value, want string
}

var pragmas = []pragma{
	{"journal_mode", "WAL", "wal"},
	{"synchronous", "NORMAL", "1"},
	{"busy_timeout", "5000", "5000"},
	{"foreign_keys", "ON", "1"},
}

// migrations[i] moves the schema from user_version i to i+1.
var migrations = []func(tx *sqlx.Tx) error{
	// v1: index snapshots by round trip for range exports.
	func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`
			CREATE INDEX IF NOT EXISTS idx_snapshots_round_trip
			ON snapshots(run_id, round_trip)
		`)
		return err
	},
}

// Store persists simulation runs and their recorded snapshots in SQLite.
type Store struct {
	db *sqlx.DB
}

// Open creates or opens the database at path, applying pragmas, the
// schema and pending migrations. Opening an up-to-date database again is
// a no-op.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect %s: %w", path, err)
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %s: %w", p.name, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SchemaVersion is the user_version a fully migrated database reports.
func SchemaVersion() int { return len(migrations) }

func migrate(db *sqlx.DB) error {
	var version int
	if err := db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("store: read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("store: migrate to v%d: %w", v+1, err)
		}
		if err := migrations[v](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: migrate to v%d: %w", v+1, err)
		}
		// PRAGMA does not take bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: migrate to v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("store: migrate to v%d: %w", v+1, err)
		}
	}
	return nil
}

func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.Get(&value, "PRAGMA "+name); err != nil {
		return "", fmt.Errorf("store: read pragma %s: %w", name, err)
	}
	return value, nil
}
