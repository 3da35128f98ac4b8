// Package kb persists extracted definitions in a SQLite knowledge base so
// abbreviations can be looked up across a corpus of statutes.
package kb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/document"
)

// ErrNotFound is returned when a document is not in the knowledge base.
var ErrNotFound = errors.New("document not found")

// DB is a SQLite-backed definition store.
type DB struct{ *sql.DB }

// Entry is a stored pair together with the document it came from.
type Entry struct {
	Source  string `json:"source" yaml:"source"`
	Formal  string `json:"formal" yaml:"formal"`
	Abbr    string `json:"abbr" yaml:"abbr"`
	InParen bool   `json:"in_paren" yaml:"in_paren"`
	Ordinal int    `json:"ordinal" yaml:"ordinal"`
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases consistent.
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	return &DB{DB: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL UNIQUE,
			content_hash TEXT NOT NULL,
			spans INTEGER NOT NULL,
			extracted_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pairs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			formal TEXT NOT NULL,
			abbr TEXT NOT NULL,
			in_paren INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_abbr ON pairs(abbr);`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_formal ON pairs(formal);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDocument stores doc, replacing any earlier extraction for the same
// source.
func (db *DB) SaveDocument(ctx context.Context, doc document.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteSource(ctx, tx, doc.Source); err != nil {
		return fmt.Errorf("deleting previous %s: %w", doc.Source, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents(source, content_hash, spans, extracted_at) VALUES(?, ?, ?, ?)`,
		doc.Source, doc.Hash, doc.Spans, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting %s: %w", doc.Source, err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pairs(document_id, ordinal, formal, abbr, in_paren) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, pair := range doc.Pairs {
		if _, err := stmt.ExecContext(ctx, docID, i, pair.Formal, pair.Abbr, pair.InParen); err != nil {
			return fmt.Errorf("inserting pair %d of %s: %w", i, doc.Source, err)
		}
	}

	return tx.Commit()
}

// ContentHash returns the stored content hash for source, or ErrNotFound.
func (db *DB) ContentHash(ctx context.Context, source string) (string, error) {
	var hash string
	err := db.QueryRowContext(ctx, `SELECT content_hash FROM documents WHERE source = ?`, source).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

// DeleteDocument removes source and its pairs. Missing sources are ignored.
func (db *DB) DeleteDocument(ctx context.Context, source string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteSource(ctx, tx, source); err != nil {
		return fmt.Errorf("deleting %s: %w", source, err)
	}
	return tx.Commit()
}

func deleteSource(ctx context.Context, tx *sql.Tx, source string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM pairs WHERE document_id IN (SELECT id FROM documents WHERE source = ?)`, source); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE source = ?`, source)
	return err
}

// Pairs returns the pairs stored for source in extraction order.
func (db *DB) Pairs(ctx context.Context, source string) ([]abbrev.Pair, error) {
	entries, err := db.query(ctx, `WHERE d.source = ?`, source)
	if err != nil {
		return nil, err
	}
	pairs := make([]abbrev.Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, abbrev.Pair{Formal: e.Formal, Abbr: e.Abbr, InParen: e.InParen})
	}
	return pairs, nil
}

// Document rebuilds the stored extraction for source, or returns
// ErrNotFound.
func (db *DB) Document(ctx context.Context, source string) (document.Document, error) {
	doc := document.Document{Source: source}
	err := db.QueryRowContext(ctx,
		`SELECT content_hash, spans FROM documents WHERE source = ?`, source).Scan(&doc.Hash, &doc.Spans)
	if errors.Is(err, sql.ErrNoRows) {
		return document.Document{}, ErrNotFound
	}
	if err != nil {
		return document.Document{}, err
	}

	if doc.Pairs, err = db.Pairs(ctx, source); err != nil {
		return document.Document{}, err
	}
	return doc, nil
}

// LookupAbbr returns every stored definition whose abbreviation is abbr.
func (db *DB) LookupAbbr(ctx context.Context, abbr string) ([]Entry, error) {
	return db.query(ctx, `WHERE p.abbr = ?`, abbr)
}

// LookupFormal returns every stored definition whose formal term is formal.
func (db *DB) LookupFormal(ctx context.Context, formal string) ([]Entry, error) {
	return db.query(ctx, `WHERE p.formal = ?`, formal)
}

func (db *DB) query(ctx context.Context, where string, arg any) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT d.source, p.formal, p.abbr, p.in_paren, p.ordinal
		FROM pairs p JOIN documents d ON d.id = p.document_id `+where+`
		ORDER BY d.source, p.ordinal`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Source, &e.Formal, &e.Abbr, &e.InParen, &e.Ordinal); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
