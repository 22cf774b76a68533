package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/akash1629/cross-domain/internal/concept"
)

// ensureConceptsSchema ensures the concepts schema exists (idempotent via CREATE IF NOT EXISTS).
func (d *DB) ensureConceptsSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS concepts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			aliases_json TEXT,
			description TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_concepts_name ON concepts(name);

		CREATE VIRTUAL TABLE IF NOT EXISTS concepts_fts USING fts5(
			id,
			name,
			aliases_text,
			description
		);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("creating concepts schema: %w", err)
	}
	return nil
}

// RebuildConceptsFromJSONL replaces the concepts tables with the contents of a JSONL
// file in a single transaction.
func (d *DB) RebuildConceptsFromJSONL(jsonlPath string) (int, error) {
	concepts, err := ReadAllConcepts(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading concepts JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM concepts"); err != nil {
		return 0, fmt.Errorf("clearing concepts table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM concepts_fts"); err != nil {
		return 0, fmt.Errorf("clearing concepts_fts table: %w", err)
	}

	conceptsStmt, err := tx.Prepare(`
		INSERT INTO concepts (id, name, aliases_json, description)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing concepts insert: %w", err)
	}
	defer conceptsStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO concepts_fts (id, name, aliases_text, description)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing concepts_fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, c := range concepts {
		var aliasesJSON string
		if len(c.Aliases) > 0 {
			aliasesBytes, err := json.Marshal(c.Aliases)
			if err != nil {
				return 0, fmt.Errorf("marshaling aliases for %s: %w", c.ID, err)
			}
			aliasesJSON = string(aliasesBytes)
		}

		if _, err := conceptsStmt.Exec(c.ID, c.Name, nullableStringFromGo(aliasesJSON), c.Description); err != nil {
			return 0, fmt.Errorf("inserting concept %s: %w", c.ID, err)
		}
		if _, err := ftsStmt.Exec(c.ID, c.Name, strings.Join(c.Aliases, " "), c.Description); err != nil {
			return 0, fmt.Errorf("inserting concepts_fts for %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing concepts: %w", err)
	}
	return len(concepts), nil
}

// GetConceptByID retrieves a concept by its ID. Returns nil, nil when absent.
func (d *DB) GetConceptByID(id string) (*concept.Concept, error) {
	row := d.db.QueryRow(`
		SELECT id, name, aliases_json, description
		FROM concepts
		WHERE id = ?
	`, id)

	return scanConcept(row)
}

// GetAllConcepts returns all concepts ordered by id.
func (d *DB) GetAllConcepts() ([]concept.Concept, error) {
	rows, err := d.db.Query(`
		SELECT id, name, aliases_json, description
		FROM concepts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying concepts: %w", err)
	}
	defer rows.Close()

	return scanConcepts(rows)
}

// SearchConcepts performs a full-text search over id, name, aliases and description.
func (d *DB) SearchConcepts(query string, limit int) ([]concept.Concept, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT c.id, c.name, c.aliases_json, c.description
		FROM concepts c
		WHERE c.id IN (SELECT id FROM concepts_fts WHERE concepts_fts MATCH ?)
		ORDER BY c.id
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching concepts: %w", err)
	}
	defer rows.Close()

	return scanConcepts(rows)
}

// CountConcepts returns the total number of concepts.
func (d *DB) CountConcepts() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM concepts").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting concepts: %w", err)
	}
	return count, nil
}

// ConceptCorpus returns the id -> description mapping of every stored concept.
func (d *DB) ConceptCorpus() (map[string]string, error) {
	rows, err := d.db.Query("SELECT id, description FROM concepts")
	if err != nil {
		return nil, fmt.Errorf("querying concept corpus: %w", err)
	}
	defer rows.Close()

	corpus := make(map[string]string)
	for rows.Next() {
		var id string
		var description sql.NullString
		if err := rows.Scan(&id, &description); err != nil {
			return nil, err
		}
		corpus[id] = description.String
	}
	return corpus, rows.Err()
}

// populateConceptFields deserializes aliasesJSON and description into a concept.
func populateConceptFields(c *concept.Concept, aliasesJSON, description sql.NullString) error {
	if aliasesJSON.Valid && aliasesJSON.String != "" {
		if err := json.Unmarshal([]byte(aliasesJSON.String), &c.Aliases); err != nil {
			return fmt.Errorf("parsing aliases JSON for %s: %w", c.ID, err)
		}
	}
	c.Description = description.String
	return nil
}

func scanConcept(row *sql.Row) (*concept.Concept, error) {
	var c concept.Concept
	var aliasesJSON, description sql.NullString

	if err := row.Scan(&c.ID, &c.Name, &aliasesJSON, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := populateConceptFields(&c, aliasesJSON, description); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanConcepts(rows *sql.Rows) ([]concept.Concept, error) {
	var concepts []concept.Concept
	for rows.Next() {
		var c concept.Concept
		var aliasesJSON, description sql.NullString

		if err := rows.Scan(&c.ID, &c.Name, &aliasesJSON, &description); err != nil {
			return nil, err
		}
		if err := populateConceptFields(&c, aliasesJSON, description); err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}
