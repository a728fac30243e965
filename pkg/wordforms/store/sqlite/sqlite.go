// Package sqlite stores a compiled morphological dictionary in SQLite so that
// large text dictionaries are parsed once and loaded quickly afterwards.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/wordforms/internal/ids"
	"github.com/cognicore/wordforms/pkg/wordforms/internalerr"
	"github.com/cognicore/wordforms/pkg/wordforms/morph"
)

// Store is a SQLite-backed dictionary store.
type Store struct {
	db *sql.DB
}

// Meta describes the dictionary currently in the store.
type Meta struct {
	BuildID   string
	Source    string
	BuiltAt   time.Time
	FormCount int
}

// Open opens (or creates) a dictionary database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS forms (
	seq INTEGER PRIMARY KEY,
	word TEXT NOT NULL,
	lemma TEXT NOT NULL,
	grammemes TEXT NOT NULL,
	score REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS forms_word ON forms(word);

CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save replaces the stored dictionary with dict in one transaction and
// returns the new build ID.
func (s *Store) Save(ctx context.Context, dict *morph.Dictionary, source string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forms`); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta`); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO forms (seq, word, lemma, grammemes, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	entries := dict.Entries()
	for i, p := range entries {
		if _, err := stmt.ExecContext(ctx, i, p.Word, p.Lemma, morph.FormatGrammemes(p.POS, p.Tags), p.Score); err != nil {
			return "", fmt.Errorf("insert form %q: %w", p.Word, err)
		}
	}

	buildID := ids.New()
	meta := map[string]string{
		"build_id":   buildID,
		"source":     source,
		"built_at":   time.Now().UTC().Format(time.RFC3339),
		"form_count": strconv.Itoa(len(entries)),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return buildID, nil
}

// Load reads the stored dictionary back in its original order, so ranking
// and ё-folding behave exactly as in the dictionary that was saved.
// An empty store yields ErrDictionary.
func (s *Store) Load(ctx context.Context) (*morph.Dictionary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word, lemma, grammemes, score FROM forms ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dict := morph.NewDictionary()
	n := 0
	for rows.Next() {
		var (
			p         morph.Parse
			grammemes string
		)
		if err := rows.Scan(&p.Word, &p.Lemma, &grammemes, &p.Score); err != nil {
			return nil, err
		}
		p.POS, p.Tags = morph.ParseGrammemes(grammemes)
		dict.Add(p)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("dictionary store is empty: %w", internalerr.ErrDictionary)
	}
	return dict, nil
}

// Meta returns information about the stored dictionary.
func (s *Store) Meta(ctx context.Context) (Meta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return Meta{}, err
	}
	defer rows.Close()

	var m Meta
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Meta{}, err
		}
		switch k {
		case "build_id":
			m.BuildID = v
		case "source":
			m.Source = v
		case "built_at":
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				m.BuiltAt = t
			}
		case "form_count":
			m.FormCount, _ = strconv.Atoi(v)
		}
	}
	return m, rows.Err()
}
