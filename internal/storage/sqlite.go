package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one row per storage line. A save replaces every row
// inside a single transaction.
type SQLiteStore struct {
	db *sqlx.DB
}

type lineRow struct {
	Position int    `db:"position"`
	Line     string `db:"line"`
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	ddl := []string{`
CREATE TABLE IF NOT EXISTS task_lines (
	position INTEGER PRIMARY KEY,
	kind TEXT NOT NULL DEFAULT '',
	line TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll returns ErrNotFound until the first WriteAll.
func (s *SQLiteStore) ReadAll() ([]byte, error) {
	var savedAt string
	err := s.db.Get(&savedAt, `SELECT value FROM meta WHERE key = 'saved_at';`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rows []lineRow
	if err := s.db.Select(&rows, `SELECT position, line FROM task_lines ORDER BY position;`); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Line)
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func (s *SQLiteStore) WriteAll(data []byte) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM task_lines;`); err != nil {
		return err
	}
	pos := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kind, _, _ := strings.Cut(line, "|")
		if _, err := tx.Exec(`INSERT INTO task_lines (position, line, kind) VALUES (?, ?, ?);`,
			pos, line, strings.TrimSpace(kind)); err != nil {
			return err
		}
		pos++
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('saved_at', ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, now); err != nil {
		return err
	}
	return tx.Commit()
}

// CountByKind reports how many stored lines carry each type letter.
func (s *SQLiteStore) CountByKind() (map[string]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"n"`
	}
	if err := s.db.Select(&rows, `SELECT kind, COUNT(*) AS n FROM task_lines GROUP BY kind;`); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Kind] = r.Count
	}
	return out, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
