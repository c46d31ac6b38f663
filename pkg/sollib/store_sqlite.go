package sollib

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists widget state in a single-table SQLite database.
// SQLite gives the atomic read-modify-write the Store contract requires
// without inventing a file format.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the state database at
// path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	// The daemon is the single writer; one connection avoids SQLITE_BUSY
	// between the transaction in Update and plain Get/Set calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS widget_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	return getRow(s.db, key)
}

func (s *SQLiteStore) Set(key, value string) error {
	return setRow(s.db, key, value)
}

func (s *SQLiteStore) Delete(key string) error {
	return deleteRow(s.db, key)
}

// Update wraps fn in a database transaction.
func (s *SQLiteStore) Update(fn func(tx Tx) error) error {
	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin state transaction: %w", err)
	}
	if err := fn(sqliteTx{dbTx}); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return dbTx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func getRow(q querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM widget_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read state key %q: %w", key, err)
	}
	return value, true, nil
}

func setRow(q querier, key, value string) error {
	_, err := q.Exec(`
		INSERT INTO widget_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write state key %q: %w", key, err)
	}
	return nil
}

func deleteRow(q querier, key string) error {
	if _, err := q.Exec(`DELETE FROM widget_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete state key %q: %w", key, err)
	}
	return nil
}

type sqliteTx struct{ tx *sql.Tx }

func (t sqliteTx) Get(key string) (string, bool, error) { return getRow(t.tx, key) }
func (t sqliteTx) Set(key, value string) error          { return setRow(t.tx, key, value) }
func (t sqliteTx) Delete(key string) error              { return deleteRow(t.tx, key) }

var _ Store = (*SQLiteStore)(nil)
