package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/akash1629/cross-domain/internal/concept"
)

func (d *DB) ensureCitationsSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS citations (
			concept_id TEXT PRIMARY KEY,
			count INTEGER NOT NULL CHECK (count >= 0)
		);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("creating citations schema: %w", err)
	}
	return nil
}

// RebuildCitationsFromJSONL replaces the citations table with the contents of a JSONL file.
func (d *DB) RebuildCitationsFromJSONL(jsonlPath string) (int, error) {
	citations, err := ReadAllCitations(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading citations JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM citations"); err != nil {
		return 0, fmt.Errorf("clearing citations table: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO citations (concept_id, count) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing citations insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range citations {
		if _, err := stmt.Exec(c.ConceptID, c.Count); err != nil {
			return 0, fmt.Errorf("inserting citation for %s: %w", c.ConceptID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing citations: %w", err)
	}
	return len(citations), nil
}

// GetCitation returns the stored count for a concept and whether an entry exists.
func (d *DB) GetCitation(conceptID string) (int, bool, error) {
	var count int
	err := d.db.QueryRow("SELECT count FROM citations WHERE concept_id = ?", conceptID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying citation: %w", err)
	}
	return count, true, nil
}

// GetAllCitations returns every citation entry ordered by count descending, then id.
func (d *DB) GetAllCitations() ([]concept.Citation, error) {
	rows, err := d.db.Query("SELECT concept_id, count FROM citations ORDER BY count DESC, concept_id")
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var out []concept.Citation
	for rows.Next() {
		var c concept.Citation
		if err := rows.Scan(&c.ConceptID, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CitationTable returns the id -> count mapping consumed by the novelty model.
func (d *DB) CitationTable() (map[string]int, error) {
	citations, err := d.GetAllCitations()
	if err != nil {
		return nil, err
	}
	return concept.Frequencies(citations), nil
}
