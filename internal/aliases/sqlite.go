package aliases

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jyang234/aef/primer/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps aliases in a SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenSQLiteStoreReadOnly opens dbPath for listing only. It never creates
// the database: a missing file yields an empty store.
func OpenSQLiteStoreReadOnly(dbPath string) (Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return emptyStore{}, nil
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// All returns every alias in no particular order
func (s *SQLiteStore) All() ([]types.Alias, error) {
	rows, err := s.db.Query(`
		SELECT name, session_path, title, created_at, updated_at
		FROM aliases
	`)
	if err != nil {
		return nil, fmt.Errorf("alias query failed: %w", err)
	}
	defer rows.Close()

	var out []types.Alias
	for rows.Next() {
		a, err := scanAlias(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one alias
func (s *SQLiteStore) Get(name string) (types.Alias, error) {
	row := s.db.QueryRow(`
		SELECT name, session_path, title, created_at, updated_at
		FROM aliases WHERE name = ?
	`, name)

	a, err := scanAlias(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Alias{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return a, err
}

// Put inserts or replaces an alias
func (s *SQLiteStore) Put(a types.Alias) error {
	var title sql.NullString
	if a.Title != "" {
		title = sql.NullString{String: a.Title, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO aliases (name, session_path, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			session_path = excluded.session_path,
			title = excluded.title,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`,
		a.Name, a.SessionPath, title,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
		a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes an alias
func (s *SQLiteStore) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM aliases WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAlias(row scanner) (types.Alias, error) {
	var a types.Alias
	var title sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&a.Name, &a.SessionPath, &title, &createdAt, &updatedAt); err != nil {
		return types.Alias{}, err
	}
	if title.Valid {
		a.Title = title.String
	}

	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return types.Alias{}, fmt.Errorf("invalid created_at for alias %s: %w", a.Name, err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return types.Alias{}, fmt.Errorf("invalid updated_at for alias %s: %w", a.Name, err)
	}
	return a, nil
}

// emptyStore stands in for a database that has not been created yet
type emptyStore struct{}

func (emptyStore) All() ([]types.Alias, error) { return nil, nil }

func (emptyStore) Get(name string) (types.Alias, error) {
	return types.Alias{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (emptyStore) Put(types.Alias) error { return ErrReadOnly }
func (emptyStore) Delete(string) error   { return ErrReadOnly }
func (emptyStore) Close() error          { return nil }
