// Package novelty turns citation frequencies into bounded novelty scores.
//
// A rarely cited concept is novel; a heavily cited one is well studied. Scores fall
// logarithmically with citation count, from the configured ceiling at zero citations
// down to 0 for the most cited concept in the table. Concepts without a table entry
// get the neutral fallback score.
package novelty

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeFrequency is returned when a citation table holds a negative count.
var ErrNegativeFrequency = errors.New("citation frequency must be non-negative")

const (
	// DefaultCeiling is the novelty of a concept recorded with zero citations.
	DefaultCeiling = 0.95

	// DefaultFallback is the novelty of a concept with no citation entry.
	DefaultFallback = 0.5
)

// Options configures a Model. A non-positive Ceiling selects DefaultCeiling; Fallback is
// used as given, clamped to [0, Ceiling].
type Options struct {
	Ceiling  float64
	Fallback float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{Ceiling: DefaultCeiling, Fallback: DefaultFallback}
}

// Model holds the citation-frequency table. It is immutable between calls to
// AddCitationData and safe for concurrent readers.
type Model struct {
	ceiling  float64
	fallback float64

	frequencies map[string]int
	maxFreq     int
	logMax      float64
}

// New creates a Model with no citation data.
func New(opts Options) *Model {
	m := &Model{
		ceiling:     opts.Ceiling,
		fallback:    opts.Fallback,
		frequencies: map[string]int{},
	}
	if m.ceiling <= 0 {
		m.ceiling = DefaultCeiling
	}
	if m.fallback < 0 {
		m.fallback = 0
	}
	if m.fallback > m.ceiling {
		m.fallback = m.ceiling
	}
	return m
}

// AddCitationData replaces the frequency table. A negative count fails the whole call
// and leaves the previous table in place.
func (m *Model) AddCitationData(frequencies map[string]int) error {
	table := make(map[string]int, len(frequencies))
	maxFreq := 0
	for id, f := range frequencies {
		if f < 0 {
			return fmt.Errorf("%w: %q has %d", ErrNegativeFrequency, id, f)
		}
		table[id] = f
		if f > maxFreq {
			maxFreq = f
		}
	}

	m.frequencies = table
	m.maxFreq = maxFreq
	m.logMax = math.Log1p(float64(maxFreq))
	return nil
}

// CalculateNovelty returns the novelty of a concept in [0, ceiling]. An explicit zero
// count gives the ceiling. Concepts missing from the table, and every concept while no
// entry has a positive count, get the fallback score.
func (m *Model) CalculateNovelty(id string) float64 {
	if m.maxFreq == 0 {
		return m.fallback
	}
	f, ok := m.frequencies[id]
	if !ok {
		return m.fallback
	}
	score := m.ceiling * (1 - math.Log1p(float64(f))/m.logMax)
	if score < 0 {
		return 0
	}
	return score
}

// CalculateConnectionNovelty is the mean novelty of two concepts.
func (m *Model) CalculateConnectionNovelty(id1, id2 string) float64 {
	return (m.CalculateNovelty(id1) + m.CalculateNovelty(id2)) / 2
}

// Frequency returns the recorded citation count, 0 when absent.
func (m *Model) Frequency(id string) int {
	return m.frequencies[id]
}

// MaxFrequency returns the largest citation count in the table.
func (m *Model) MaxFrequency() int {
	return m.maxFreq
}

// HasData reports whether any concept has a positive citation count.
func (m *Model) HasData() bool {
	return m.maxFreq > 0
}

// Len returns the number of entries in the table.
func (m *Model) Len() int {
	return len(m.frequencies)
}

// Ceiling returns the novelty of a concept recorded with zero citations.
func (m *Model) Ceiling() float64 {
	return m.ceiling
}

// Fallback returns the score of a concept without citation data.
func (m *Model) Fallback() float64 {
	return m.fallback
}
