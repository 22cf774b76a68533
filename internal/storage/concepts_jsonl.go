package storage

import (
	"fmt"

	"github.com/akash1629/cross-domain/internal/concept"
)

// ReadAllConcepts reads all concepts from a JSONL file.
// Returns an error if any concept fails validation or an id repeats (fail-fast).
func ReadAllConcepts(path string) ([]concept.Concept, error) {
	seen := make(map[string]bool)
	return readJSONL(path, "concept", func(c *concept.Concept) error {
		if err := c.ValidateForCreate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: %s", concept.ErrDuplicateID, c.ID)
		}
		seen[c.ID] = true
		return nil
	})
}

// AppendConcept adds a concept to the end of a JSONL file.
func AppendConcept(path string, c concept.Concept) error {
	return appendJSONL(path, "concept", c)
}

// WriteAllConcepts writes all concepts to a JSONL file, replacing existing content.
func WriteAllConcepts(path string, concepts []concept.Concept) error {
	return writeAllJSONL(path, "concept", concepts)
}

// FindConceptByID searches for a concept by its ID in an in-memory slice.
// Returns the index and true if found, -1 and false otherwise.
func FindConceptByID(concepts []concept.Concept, id string) (int, bool) {
	for i, c := range concepts {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// UpsertConceptInSlice adds or updates a concept in an in-memory slice.
// Returns the updated slice and true if the concept was updated, false if added.
func UpsertConceptInSlice(concepts []concept.Concept, newConcept concept.Concept) ([]concept.Concept, bool) {
	idx, found := FindConceptByID(concepts, newConcept.ID)
	if found {
		concepts[idx] = newConcept
		return concepts, true
	}
	return append(concepts, newConcept), false
}

// DeleteConceptFromSlice removes a concept from an in-memory slice, keeping the order of
// the rest. Returns the updated slice and whether the concept was found.
func DeleteConceptFromSlice(concepts []concept.Concept, id string) ([]concept.Concept, bool) {
	idx, found := FindConceptByID(concepts, id)
	if !found {
		return concepts, false
	}
	return append(concepts[:idx], concepts[idx+1:]...), true
}

// LoadCorpus reads the concepts file and returns the id -> description mapping
// consumed by the vector space.
func LoadCorpus(path string) (map[string]string, error) {
	concepts, err := ReadAllConcepts(path)
	if err != nil {
		return nil, err
	}
	return concept.Corpus(concepts), nil
}
