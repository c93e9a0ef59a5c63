// Package audit persists one journal row per validation request. The journal
// is an operational record only; verdicts are computed before anything is
// written and a journal failure never changes them.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// sampleLimit caps how many runes of the validated text are stored.
const sampleLimit = 64

// Entry is a row from the verdicts table.
type Entry struct {
	ID                int64
	Sample            string
	Variant           string
	Mode              string
	SymbolHit         bool
	EncodingForbidden bool
	Forbidden         bool
	CreatedAt         int64
}

// Store manages the verdicts SQLite table.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// verdicts table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS verdicts (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		sample             TEXT NOT NULL,
		variant            TEXT NOT NULL,
		mode               TEXT NOT NULL,
		symbol_hit         INTEGER NOT NULL,
		encoding_forbidden INTEGER NOT NULL,
		forbidden          INTEGER NOT NULL,
		created_at         INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create verdicts table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one verdict row. The stored sample is truncated to
// sampleLimit runes.
func (s *Store) Record(e Entry) error {
	sample := []rune(e.Sample)
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}

	const q = `INSERT INTO verdicts
		(sample, variant, mode, symbol_hit, encoding_forbidden, forbidden, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	createdAt := e.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	if _, err := s.db.Exec(q, string(sample), e.Variant, e.Mode,
		boolInt(e.SymbolHit), boolInt(e.EncodingForbidden), boolInt(e.Forbidden), createdAt); err != nil {
		return fmt.Errorf("record verdict: %w", err)
	}
	return nil
}

// Recent returns the newest rows, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT id, sample, variant, mode,
		symbol_hit, encoding_forbidden, forbidden, created_at
		FROM verdicts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list verdicts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var symbolHit, encForbidden, forbidden int
		if err := rows.Scan(&e.ID, &e.Sample, &e.Variant, &e.Mode,
			&symbolHit, &encForbidden, &forbidden, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		e.SymbolHit = symbolHit != 0
		e.EncodingForbidden = encForbidden != 0
		e.Forbidden = forbidden != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns the total number of journaled requests and how many of them
// were forbidden.
func (s *Store) Counts() (total, forbidden int64, err error) {
	err = s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(forbidden), 0) FROM verdicts`).
		Scan(&total, &forbidden)
	if err != nil {
		return 0, 0, fmt.Errorf("count verdicts: %w", err)
	}
	return total, forbidden, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
