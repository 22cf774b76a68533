package storage

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dir
}

func populate(t *testing.T, db *DB, dir string) {
	t.Helper()
	conceptsPath := filepath.Join(dir, "concepts.jsonl")
	citationsPath := filepath.Join(dir, "citations.jsonl")
	if err := WriteAllConcepts(conceptsPath, dualProcessConcepts()); err != nil {
		t.Fatal(err)
	}
	if err := WriteAllCitations(citationsPath, dualProcessCitations()); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RebuildConceptsFromJSONL(conceptsPath); err != nil {
		t.Fatalf("RebuildConceptsFromJSONL() error = %v", err)
	}
	if _, err := db.RebuildCitationsFromJSONL(citationsPath); err != nil {
		t.Fatalf("RebuildCitationsFromJSONL() error = %v", err)
	}
}

func TestRebuildConceptsFromJSONL(t *testing.T) {
	db, dir := openTestDB(t)
	path := filepath.Join(dir, "concepts.jsonl")
	if err := WriteAllConcepts(path, dualProcessConcepts()); err != nil {
		t.Fatal(err)
	}

	count, err := db.RebuildConceptsFromJSONL(path)
	if err != nil {
		t.Fatalf("RebuildConceptsFromJSONL() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	// Rebuilding replaces rather than appends.
	if _, err := db.RebuildConceptsFromJSONL(path); err != nil {
		t.Fatal(err)
	}
	n, err := db.CountConcepts()
	if err != nil {
		t.Fatalf("CountConcepts() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountConcepts() = %d after second rebuild, want 3", n)
	}
}

func TestRebuildConceptsFromJSONL_NonexistentFile(t *testing.T) {
	db, _ := openTestDB(t)

	count, err := db.RebuildConceptsFromJSONL("/nonexistent/path/concepts.jsonl")
	if err != nil {
		t.Fatalf("RebuildConceptsFromJSONL() error = %v, want nil for nonexistent file", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestRebuildConceptsFromJSONL_InvalidKeepsData(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	bad := filepath.Join(dir, "bad.jsonl")
	writeFile(t, bad, `{"id":"ok"}`+"\n"+`{"id":""}`+"\n")
	if _, err := db.RebuildConceptsFromJSONL(bad); err == nil {
		t.Fatal("RebuildConceptsFromJSONL() should fail on invalid data")
	}

	n, _ := db.CountConcepts()
	if n != 3 {
		t.Errorf("CountConcepts() = %d, want previous 3", n)
	}
}

func TestGetConceptByID(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	c, err := db.GetConceptByID("system_1")
	if err != nil {
		t.Fatalf("GetConceptByID() error = %v", err)
	}
	if c == nil {
		t.Fatal("GetConceptByID() returned nil, want concept")
	}
	if c.Name != "System 1" || len(c.Aliases) != 2 || c.Aliases[1] != "S1" {
		t.Errorf("GetConceptByID() = %+v", c)
	}

	missing, err := db.GetConceptByID("missing")
	if err != nil {
		t.Fatalf("GetConceptByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetConceptByID(missing) = %+v, want nil", missing)
	}
}

func TestGetAllConcepts(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	all, err := db.GetAllConcepts()
	if err != nil {
		t.Fatalf("GetAllConcepts() error = %v", err)
	}
	want := []string{"consciousness", "intuition", "system_1"}
	if len(all) != len(want) {
		t.Fatalf("got %d concepts, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("all[%d] = %s, want %s", i, all[i].ID, id)
		}
	}
}

func TestSearchConcepts(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	tests := []struct {
		query string
		want  []string
	}{
		{"heuristic", []string{"consciousness", "system_1"}},
		{"automatic", []string{"intuition", "system_1"}},
		{"S1", []string{"system_1"}},
		{"photosynthesis", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.SearchConcepts(tt.query, 10)
			if err != nil {
				t.Fatalf("SearchConcepts(%q) error = %v", tt.query, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchConcepts(%q) = %d results, want %d", tt.query, len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSearchConcepts_SpecialCharacters(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	if _, err := db.SearchConcepts(`dual-process "theory"`, 10); err != nil {
		t.Errorf("SearchConcepts() with special characters error = %v", err)
	}
}

func TestConceptCorpus(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	corpus, err := db.ConceptCorpus()
	if err != nil {
		t.Fatalf("ConceptCorpus() error = %v", err)
	}
	if len(corpus) != 3 || corpus["consciousness"] != "heuristic subjective awareness" {
		t.Errorf("ConceptCorpus() = %v", corpus)
	}
}

func TestCitations(t *testing.T) {
	db, dir := openTestDB(t)
	populate(t, db, dir)

	count, ok, err := db.GetCitation("system_1")
	if err != nil || !ok || count != 50 {
		t.Errorf("GetCitation(system_1) = %d, %v, %v", count, ok, err)
	}
	_, ok, err = db.GetCitation("missing")
	if err != nil || ok {
		t.Errorf("GetCitation(missing) = %v, %v", ok, err)
	}

	all, err := db.GetAllCitations()
	if err != nil {
		t.Fatalf("GetAllCitations() error = %v", err)
	}
	if len(all) != 3 || all[0].ConceptID != "consciousness" || all[2].ConceptID != "system_1" {
		t.Errorf("GetAllCitations() = %v, want ordered by count desc", all)
	}

	table, err := db.CitationTable()
	if err != nil {
		t.Fatalf("CitationTable() error = %v", err)
	}
	if table["intuition"] != 1500 {
		t.Errorf("CitationTable()[intuition] = %d, want 1500", table["intuition"])
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  awareness  ", "awareness"},
		{"dual-process", `"dual-process"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
