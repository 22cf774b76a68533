// Package concept defines the input records for bridge discovery: concepts and their citation counts.
package concept

import (
	"errors"
	"regexp"
)

// Concept represents a named idea, method, or phenomenon whose description feeds the vector space.
type Concept struct {
	ID          string   `json:"id"`                    // Required, unique, lowercase alphanumeric + hyphens/underscores
	Name        string   `json:"name,omitempty"`        // Optional, human-readable display name
	Aliases     []string `json:"aliases,omitempty"`     // Optional, alternative names
	Description string   `json:"description,omitempty"` // Free text; empty yields a zero vector
}

// Citation records how often a concept appears in the citation record.
type Citation struct {
	ConceptID string `json:"concept_id"`
	Count     int    `json:"count"`
}

// IDPattern is the regex pattern for valid concept IDs.
// Must start with alphanumeric, followed by alphanumeric, hyphens, or underscores.
var IDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validation errors.
var (
	ErrEmptyID            = errors.New("id is required")
	ErrInvalidID          = errors.New("id must match pattern: lowercase alphanumeric, hyphens, underscores; must start with alphanumeric")
	ErrDuplicateID        = errors.New("concept with this id already exists")
	ErrConceptNotFound    = errors.New("concept not found")
	ErrNegativeCitations  = errors.New("citation count must be non-negative")
	ErrEmptyCitationOwner = errors.New("concept_id is required")
)

// ValidateForCreate validates a concept for creation.
// Returns an error if any required field is missing or invalid.
func (c *Concept) ValidateForCreate() error {
	return ValidateID(c.ID)
}

// DisplayName returns the name, falling back to the ID.
func (c *Concept) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// ValidateID validates just the ID field (useful for lookup operations).
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if !IDPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// Validate checks that a citation record names a concept and has a non-negative count.
func (c *Citation) Validate() error {
	if c.ConceptID == "" {
		return ErrEmptyCitationOwner
	}
	if c.Count < 0 {
		return ErrNegativeCitations
	}
	return nil
}

// Corpus converts concepts to the id -> description mapping consumed by the vector space.
// Later entries with the same id replace earlier ones.
func Corpus(concepts []Concept) map[string]string {
	out := make(map[string]string, len(concepts))
	for _, c := range concepts {
		out[c.ID] = c.Description
	}
	return out
}

// Frequencies converts citation records to the id -> count mapping consumed by the novelty model.
// Later entries with the same concept id replace earlier ones.
func Frequencies(citations []Citation) map[string]int {
	out := make(map[string]int, len(citations))
	for _, c := range citations {
		out[c.ConceptID] = c.Count
	}
	return out
}
