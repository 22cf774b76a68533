// Package vectorspace builds the shared TF-IDF representation of concept descriptions
// and answers similarity and neighborhood queries over it.
//
// A Space is produced by a single build step and never mutated afterwards: adding a
// concept means staging it in a Corpus and building a new Space. All query methods on
// a built Space are safe for concurrent use.
package vectorspace

import (
	"errors"
	"sync"
	"time"
)

// Errors returned by vector space operations.
var (
	ErrNotBuilt           = errors.New("vector space not built")
	ErrUnknownConcept     = errors.New("unknown concept")
	ErrEmptyID            = errors.New("concept id is required")
	ErrSnapshotNotFound   = errors.New("vector space snapshot not found")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// DefaultMaxVocabularySize caps the vocabulary when BuildOptions leaves it unset.
const DefaultMaxVocabularySize = 5000

// ProgressReporter receives progress updates while descriptions are tokenized.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Neighbor is a concept within a similarity threshold of another concept.
type Neighbor struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// TermWeight is a vocabulary term and its weight in one or more concept vectors.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// BuildStats describes a completed build.
type BuildStats struct {
	Concepts       int           `json:"concepts"`
	EmptyConcepts  int           `json:"empty_concepts"` // descriptions with no usable terms
	DistinctTerms  int           `json:"distinct_terms"` // before the vocabulary cap
	VocabularySize int           `json:"vocabulary_size"`
	Duration       time.Duration `json:"-"`
}

// Space is an immutable, built vector space. Every concept vector has one weight per
// vocabulary term, is non-negative and has unit length (or is all zeros).
type Space struct {
	vocabulary []string       // sorted; position is the dimension
	terms      map[string]int // term -> dimension
	idf        []float64

	ids      []string // sorted
	position map[string]int
	vectors  [][]float32
	norms    []float32

	maxVocabularySize int
	corpusHash        string
	createdAt         time.Time
	stats             BuildStats

	// similarities caches pairwise values for the lifetime of the space, keyed by pairKey.
	similarities sync.Map
}
