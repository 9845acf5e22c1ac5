// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists contributed compounds and their spectroscopy
// experiments in a local SQLite database and serves as the local-database
// tier of the resolution cascade.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the compound catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at catalogDir/catalog.db,
// creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, catalogDir: cfg.CatalogDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS compounds (
			id TEXT PRIMARY KEY,
			iupac_name TEXT,
			common_name TEXT,
			smiles TEXT,
			inchi TEXT,
			chemical_formula TEXT,
			cas_number TEXT,
			pubchem_cid TEXT,
			image_url TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS synonyms (
			compound_id TEXT NOT NULL REFERENCES compounds(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			synonym TEXT NOT NULL,
			UNIQUE(compound_id, synonym)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_synonyms_compound ON synonyms(compound_id)`,
		`CREATE TABLE IF NOT EXISTS experiments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			compound_id TEXT NOT NULL REFERENCES compounds(id) ON DELETE CASCADE,
			edge TEXT NOT NULL,
			angle REAL NOT NULL,
			data_path TEXT NOT NULL,
			loaded_at TEXT NOT NULL,
			UNIQUE(compound_id, edge, angle, data_path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_experiments_compound ON experiments(compound_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 table over every name a compound is known by; maintained on save.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='names_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		if _, err := s.db.Exec(
			`CREATE VIRTUAL TABLE names_fts USING fts5(name, compound_id UNINDEXED)`,
		); err != nil {
			return fmt.Errorf("creating FTS table: %w", err)
		}
	}
	return nil
}

// SaveCompound inserts or updates a compound and returns its catalog ID.
// New compounds get an ID derived from the common name; existing IDs are
// preserved across updates.
func (s *Store) SaveCompound(ctx context.Context, id string, c types.Compound) (string, error) {
	if id == "" {
		id = compoundID(c)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compounds
			(id, iupac_name, common_name, smiles, inchi, chemical_formula,
			 cas_number, pubchem_cid, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			iupac_name = excluded.iupac_name,
			common_name = excluded.common_name,
			smiles = excluded.smiles,
			inchi = excluded.inchi,
			chemical_formula = excluded.chemical_formula,
			cas_number = excluded.cas_number,
			pubchem_cid = excluded.pubchem_cid,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at`,
		id, c.IUPACName, c.CommonName, c.SMILES, c.InChI, c.ChemicalFormula,
		c.CASNumber, c.PubChemCID, c.ImageURL, now, now)
	if err != nil {
		return "", fmt.Errorf("upserting compound: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM synonyms WHERE compound_id = ?`, id); err != nil {
		return "", fmt.Errorf("clearing synonyms: %w", err)
	}
	for i, syn := range c.Synonyms {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO synonyms (compound_id, position, synonym) VALUES (?, ?, ?)`,
			id, i, syn); err != nil {
			return "", fmt.Errorf("inserting synonym: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM names_fts WHERE compound_id = ?`, id); err != nil {
		return "", fmt.Errorf("clearing name index: %w", err)
	}
	for _, name := range indexedNames(c) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO names_fts (name, compound_id) VALUES (?, ?)`, name, id); err != nil {
			return "", fmt.Errorf("indexing name: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return id, nil
}

// GetCompound loads one compound by catalog ID.
func (s *Store) GetCompound(ctx context.Context, id string) (*types.Compound, error) {
	var c types.Compound
	err := s.db.QueryRowContext(ctx, `
		SELECT iupac_name, common_name, smiles, inchi, chemical_formula,
		       cas_number, pubchem_cid, image_url
		FROM compounds WHERE id = ?`, id).Scan(
		&c.IUPACName, &c.CommonName, &c.SMILES, &c.InChI, &c.ChemicalFormula,
		&c.CASNumber, &c.PubChemCID, &c.ImageURL)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("compound %q: %w", id, source.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading compound: %w", err)
	}

	c.Synonyms, err = s.loadSynonyms(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SearchCompound returns the best match for free text: an exact
// (case-insensitive) name or synonym match first, then the top-ranked FTS
// hit. Absence is reported with ErrNotFound.
func (s *Store) SearchCompound(ctx context.Context, query string) (*source.CatalogMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("catalog: %w", source.ErrNotFound)
	}

	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT c.id FROM compounds c
		WHERE c.common_name = ? COLLATE NOCASE
		   OR c.iupac_name = ? COLLATE NOCASE
		   OR EXISTS (SELECT 1 FROM synonyms s
		              WHERE s.compound_id = c.id AND s.synonym = ? COLLATE NOCASE)
		LIMIT 1`, query, query, query).Scan(&id)
	if err == sql.ErrNoRows {
		err = s.db.QueryRowContext(ctx, `
			SELECT compound_id FROM names_fts
			WHERE names_fts MATCH ?
			ORDER BY rank LIMIT 1`, ftsPhrase(query)).Scan(&id)
	}
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("catalog %q: %w", query, source.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	c, err := s.GetCompound(ctx, id)
	if err != nil {
		return nil, err
	}
	return &source.CatalogMatch{ID: id, Compound: *c}, nil
}

// Query returns up to limit catalog matches for free text, ranked.
func (s *Store) Query(ctx context.Context, query string, limit int) ([]source.CatalogMatch, error) {
	if limit <= 0 || limit > s.maxResults {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT compound_id FROM names_fts
		WHERE names_fts MATCH ?
		ORDER BY rank LIMIT ?`, ftsPrefix(query), limit)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}

	matches := make([]source.CatalogMatch, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCompound(ctx, id)
		if err != nil {
			return nil, err
		}
		matches = append(matches, source.CatalogMatch{ID: id, Compound: *c})
	}
	return matches, nil
}

// AddExperiment records one spectroscopy measurement. Re-importing the same
// measurement is a no-op; the returned bool reports whether a row was added.
func (s *Store) AddExperiment(ctx context.Context, exp types.Experiment) (bool, error) {
	loadedAt := exp.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO experiments (compound_id, edge, angle, data_path, loaded_at)
		VALUES (?, ?, ?, ?, ?)`,
		exp.CompoundID, exp.Edge, exp.Angle, exp.DataPath, loadedAt.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("inserting experiment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert: %w", err)
	}
	return n > 0, nil
}

// ListExperiments returns all measurements for a compound, ordered by edge
// then angle.
func (s *Store) ListExperiments(ctx context.Context, compoundID string) ([]types.Experiment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, compound_id, edge, angle, data_path, loaded_at
		FROM experiments WHERE compound_id = ?
		ORDER BY edge, angle`, compoundID)
	if err != nil {
		return nil, fmt.Errorf("listing experiments: %w", err)
	}
	defer rows.Close()

	var exps []types.Experiment
	for rows.Next() {
		var e types.Experiment
		var loadedAt string
		if err := rows.Scan(&e.ID, &e.CompoundID, &e.Edge, &e.Angle, &e.DataPath, &loadedAt); err != nil {
			return nil, fmt.Errorf("scanning experiment: %w", err)
		}
		e.LoadedAt, _ = time.Parse(time.RFC3339, loadedAt)
		exps = append(exps, e)
	}
	return exps, rows.Err()
}

func (s *Store) loadSynonyms(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT synonym FROM synonyms WHERE compound_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading synonyms: %w", err)
	}
	defer rows.Close()

	var syns []string
	for rows.Next() {
		var syn string
		if err := rows.Scan(&syn); err != nil {
			return nil, fmt.Errorf("scanning synonym: %w", err)
		}
		syns = append(syns, syn)
	}
	return syns, rows.Err()
}

// indexedNames returns every name the compound should be findable by.
func indexedNames(c types.Compound) []string {
	var names []string
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	add(c.CommonName)
	add(c.IUPACName)
	for _, syn := range c.Synonyms {
		add(syn)
	}
	return names
}

// compoundID derives a stable catalog ID: a slug of the common name, or a
// content hash when no name is usable.
func compoundID(c types.Compound) string {
	slug := slugify(c.CommonName)
	if slug != "" {
		return slug
	}
	h := sha256.Sum256([]byte(c.InChI + "|" + c.SMILES + "|" + c.ChemicalFormula))
	return fmt.Sprintf("compound-%x", h[:8])
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ftsPhrase quotes a query as a single FTS5 phrase.
func ftsPhrase(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}

// ftsPrefix quotes a query as a phrase prefix for incremental search.
func ftsPrefix(query string) string {
	return ftsPhrase(query) + "*"
}
