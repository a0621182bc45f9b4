// Package receipts provides a local SQLite record of every proof this
// client has stamped or upgraded, structurally implementing
// pkg/ots.ReceiptStore without importing it.
package receipts

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS stamps (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    digest      TEXT NOT NULL,
    servers     TEXT NOT NULL,
    created_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS upgrades (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    digest         TEXT NOT NULL,
    upgraded       INTEGER NOT NULL,
    still_pending  INTEGER NOT NULL,
    upgraded_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stamps_digest ON stamps(digest);
CREATE INDEX IF NOT EXISTS idx_upgrades_digest ON upgrades(digest);
`

// Store is a SQLite-backed pkg/ots.ReceiptStore.
type Store struct {
	db *sql.DB
}

// Open opens or creates the receipts database at path, applying the
// schema if the database is new.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create receipts directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open receipts database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply receipts schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordStamp implements pkg/ots.ReceiptStore.
func (s *Store) RecordStamp(digest []byte, servers []string, createdAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO stamps (digest, servers, created_at) VALUES (?, ?, ?)`,
		hex.EncodeToString(digest), strings.Join(servers, ","), createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record stamp: %w", err)
	}
	return nil
}

// RecordUpgrade implements pkg/ots.ReceiptStore.
func (s *Store) RecordUpgrade(digest []byte, upgraded, stillPending int, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO upgrades (digest, upgraded, still_pending, upgraded_at) VALUES (?, ?, ?, ?)`,
		hex.EncodeToString(digest), upgraded, stillPending, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record upgrade: %w", err)
	}
	return nil
}

// StampRecord is one row of stamping history, returned by StampsFor.
type StampRecord struct {
	Servers   []string
	CreatedAt time.Time
}

// StampsFor returns every recorded stamp for digest, most recent first.
func (s *Store) StampsFor(digest []byte) ([]StampRecord, error) {
	rows, err := s.db.Query(
		`SELECT servers, created_at FROM stamps WHERE digest = ? ORDER BY created_at DESC`,
		hex.EncodeToString(digest),
	)
	if err != nil {
		return nil, fmt.Errorf("query stamps: %w", err)
	}
	defer rows.Close()

	var out []StampRecord
	for rows.Next() {
		var servers string
		var createdAt int64
		if err := rows.Scan(&servers, &createdAt); err != nil {
			return nil, fmt.Errorf("scan stamp row: %w", err)
		}
		out = append(out, StampRecord{
			Servers:   strings.Split(servers, ","),
			CreatedAt: time.Unix(createdAt, 0).UTC(),
		})
	}
	return out, rows.Err()
}
