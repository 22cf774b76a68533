package storage

import (
	"fmt"
	"sort"

	"github.com/akash1629/cross-domain/internal/concept"
)

// ReadAllCitations reads all citation counts from a JSONL file. A negative count or a
// repeated concept id fails the whole read.
func ReadAllCitations(path string) ([]concept.Citation, error) {
	seen := make(map[string]bool)
	return readJSONL(path, "citation", func(c *concept.Citation) error {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ConceptID] {
			return fmt.Errorf("duplicate citation entry for %s", c.ConceptID)
		}
		seen[c.ConceptID] = true
		return nil
	})
}

// WriteAllCitations writes all citation counts, sorted by concept id.
func WriteAllCitations(path string, citations []concept.Citation) error {
	sorted := append([]concept.Citation(nil), citations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ConceptID < sorted[j].ConceptID })
	return writeAllJSONL(path, "citation", sorted)
}

// UpsertCitationInSlice sets the count for a concept.
// Returns the updated slice and true if an existing entry was updated.
func UpsertCitationInSlice(citations []concept.Citation, c concept.Citation) ([]concept.Citation, bool) {
	for i := range citations {
		if citations[i].ConceptID == c.ConceptID {
			citations[i] = c
			return citations, true
		}
	}
	return append(citations, c), false
}

// DeleteCitationFromSlice removes the entry for a concept, if any.
func DeleteCitationFromSlice(citations []concept.Citation, conceptID string) ([]concept.Citation, bool) {
	for i := range citations {
		if citations[i].ConceptID == conceptID {
			return append(citations[:i], citations[i+1:]...), true
		}
	}
	return citations, false
}

// LoadFrequencies reads the citations file and returns the id -> count mapping
// consumed by the novelty model.
func LoadFrequencies(path string) (map[string]int, error) {
	citations, err := ReadAllCitations(path)
	if err != nil {
		return nil, err
	}
	return concept.Frequencies(citations), nil
}
