package vectorspace

import (
	"fmt"
	"sort"
	"time"

	"github.com/viant/vec/search"
)

// Similarity returns the cosine similarity of two built concepts, in [0,1].
// A concept is always maximally similar to itself; a concept with an empty vector
// has similarity 0 to every other concept.
func (s *Space) Similarity(id1, id2 string) (float64, error) {
	if s == nil {
		return 0, ErrNotBuilt
	}
	i, err := s.lookup(id1)
	if err != nil {
		return 0, err
	}
	j, err := s.lookup(id2)
	if err != nil {
		return 0, err
	}
	return s.similarityAt(i, j), nil
}

func (s *Space) lookup(id string) (int, error) {
	i, ok := s.position[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownConcept, id)
	}
	return i, nil
}

func pairKey(i, j int) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(j)
}

func (s *Space) similarityAt(i, j int) float64 {
	if i == j {
		return 1
	}
	key := pairKey(i, j)
	if v, ok := s.similarities.Load(key); ok {
		return v.(float64)
	}

	// Always compute in canonical order so a and b give bit-identical results.
	if i > j {
		i, j = j, i
	}
	var sim float64
	if s.norms[i] > 0 && s.norms[j] > 0 {
		dist := search.Float32s(s.vectors[i]).CosineDistance(s.vectors[j])
		sim = clamp01(1 - float64(dist))
	}
	s.similarities.Store(key, sim)
	return sim
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Neighborhood returns the ids (excluding id itself) whose similarity to id is at least
// threshold, sorted by id.
func (s *Space) Neighborhood(id string, threshold float64) ([]string, error) {
	neighbors, err := s.NeighborsWithSimilarity(id, threshold)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.ID
	}
	sort.Strings(ids)
	return ids, nil
}

// NeighborsWithSimilarity returns the same set as Neighborhood with similarities attached,
// sorted by similarity descending, then id.
func (s *Space) NeighborsWithSimilarity(id string, threshold float64) ([]Neighbor, error) {
	if s == nil {
		return nil, ErrNotBuilt
	}
	i, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	var out []Neighbor
	for j, other := range s.ids {
		if j == i {
			continue
		}
		if sim := s.similarityAt(i, j); sim >= threshold {
			out = append(out, Neighbor{ID: other, Similarity: sim})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Similarity != out[b].Similarity {
			return out[a].Similarity > out[b].Similarity
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

// IDs returns the built concept ids in sorted order.
func (s *Space) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Has reports whether id is part of the built space.
func (s *Space) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.position[id]
	return ok
}

// Len returns the number of concepts.
func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Dimensions returns the vector dimensionality (the vocabulary size).
func (s *Space) Dimensions() int {
	if s == nil {
		return 0
	}
	return len(s.vocabulary)
}

// Vocabulary returns the shared vocabulary in dimension order.
func (s *Space) Vocabulary() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.vocabulary))
	copy(out, s.vocabulary)
	return out
}

// Vector returns a copy of a concept's vector.
func (s *Space) Vector(id string) ([]float32, error) {
	if s == nil {
		return nil, ErrNotBuilt
	}
	i, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(s.vectors[i]))
	copy(out, s.vectors[i])
	return out, nil
}

// TopTerms returns up to n of the concept's highest-weighted terms, heaviest first.
// n <= 0 returns all weighted terms.
func (s *Space) TopTerms(id string, n int) ([]TermWeight, error) {
	if s == nil {
		return nil, ErrNotBuilt
	}
	i, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	var out []TermWeight
	for dim, w := range s.vectors[i] {
		if w > 0 {
			out = append(out, TermWeight{Term: s.vocabulary[dim], Weight: float64(w)})
		}
	}
	return topWeights(out, n), nil
}

// SharedTerms returns up to n terms weighted in both concepts, ranked by the product of
// the two weights (their contribution to the cosine similarity).
func (s *Space) SharedTerms(id1, id2 string, n int) ([]TermWeight, error) {
	if s == nil {
		return nil, ErrNotBuilt
	}
	i, err := s.lookup(id1)
	if err != nil {
		return nil, err
	}
	j, err := s.lookup(id2)
	if err != nil {
		return nil, err
	}

	var out []TermWeight
	a, b := s.vectors[i], s.vectors[j]
	for dim := range a {
		if a[dim] > 0 && b[dim] > 0 {
			out = append(out, TermWeight{Term: s.vocabulary[dim], Weight: float64(a[dim]) * float64(b[dim])})
		}
	}
	return topWeights(out, n), nil
}

func topWeights(ws []TermWeight, n int) []TermWeight {
	sort.Slice(ws, func(a, b int) bool {
		if ws[a].Weight != ws[b].Weight {
			return ws[a].Weight > ws[b].Weight
		}
		return ws[a].Term < ws[b].Term
	})
	if n > 0 && len(ws) > n {
		ws = ws[:n]
	}
	return ws
}

// CorpusHash returns the fingerprint of the corpus the space was built from.
func (s *Space) CorpusHash() string {
	if s == nil {
		return ""
	}
	return s.corpusHash
}

// CreatedAt returns the build time.
func (s *Space) CreatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.createdAt
}

// Stats returns the statistics of the build that produced the space.
func (s *Space) Stats() BuildStats {
	if s == nil {
		return BuildStats{}
	}
	return s.stats
}
