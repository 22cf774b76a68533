// Package bridge scores and ranks the concepts that could connect two domains.
//
// A bridge is rewarded for being similar to both domains and for being rarely cited,
// and penalised for being generic:
//
//	score = α·sim(bridge, d1) + β·sim(bridge, d2) + γ·novelty(bridge) − δ·commonality(bridge)
//
// Commonality is the bridge's mean similarity to a reference sample of the whole corpus,
// so a concept close to everything ranks below one that is specific to the two domains.
package bridge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/logger"
)

// ErrEmptyCandidateSet is returned when no concept other than the two domains exists.
var ErrEmptyCandidateSet = errors.New("empty candidate set")

// SimilaritySource answers pairwise similarity queries over a built space.
type SimilaritySource interface {
	Similarity(id1, id2 string) (float64, error)
	IDs() []string
}

// NoveltySource scores how rarely a concept is cited.
type NoveltySource interface {
	CalculateNovelty(id string) float64
}

// Candidate is one scored bridge.
type Candidate struct {
	ConceptID           string  `json:"concept_id"`
	SimilarityToDomain1 float64 `json:"similarity_to_domain1"`
	SimilarityToDomain2 float64 `json:"similarity_to_domain2"`
	Novelty             float64 `json:"novelty"`
	Commonality         float64 `json:"commonality"`
	BridgeStrength      float64 `json:"bridge_strength"`
}

// Scorer ranks bridges against one built space and citation table. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	space   SimilaritySource
	novelty NoveltySource
	cfg     config.Config
	log     *logger.Logger
}

// NewScorer creates a scorer. A nil logger discards output.
func NewScorer(space SimilaritySource, novelty NoveltySource, cfg config.Config, log *logger.Logger) *Scorer {
	return &Scorer{space: space, novelty: novelty, cfg: cfg, log: log}
}

// BridgeStrength returns the weighted score of bridge between domain1 and domain2.
func (s *Scorer) BridgeStrength(bridge, domain1, domain2 string) (float64, error) {
	c, err := s.Score(bridge, domain1, domain2)
	if err != nil {
		return 0, err
	}
	return c.BridgeStrength, nil
}

// Score computes every factor of the bridge score.
func (s *Scorer) Score(bridge, domain1, domain2 string) (Candidate, error) {
	return s.score(bridge, domain1, domain2, s.space.IDs())
}

func (s *Scorer) score(bridge, domain1, domain2 string, ids []string) (Candidate, error) {
	sim1, err := s.space.Similarity(bridge, domain1)
	if err != nil {
		return Candidate{}, err
	}
	sim2, err := s.space.Similarity(bridge, domain2)
	if err != nil {
		return Candidate{}, err
	}
	common, err := s.commonality(bridge, ids)
	if err != nil {
		return Candidate{}, err
	}
	nov := s.novelty.CalculateNovelty(bridge)

	return Candidate{
		ConceptID:           bridge,
		SimilarityToDomain1: sim1,
		SimilarityToDomain2: sim2,
		Novelty:             nov,
		Commonality:         common,
		BridgeStrength:      s.cfg.Alpha*sim1 + s.cfg.Beta*sim2 + s.cfg.Gamma*nov - s.cfg.Delta*common,
	}, nil
}

// Commonality returns the mean similarity of id to the reference sample. A space with
// no other concept yields 0.
func (s *Scorer) Commonality(id string) (float64, error) {
	return s.commonality(id, s.space.IDs())
}

func (s *Scorer) commonality(id string, ids []string) (float64, error) {
	sample := ReferenceSample(ids, id, s.cfg.CommonalitySampleSize)
	if len(sample) == 0 {
		// Still report unknown ids.
		if _, err := s.space.Similarity(id, id); err != nil {
			return 0, err
		}
		return 0, nil
	}

	var sum float64
	for _, other := range sample {
		sim, err := s.space.Similarity(id, other)
		if err != nil {
			return 0, err
		}
		sum += sim
	}
	return sum / float64(len(sample)), nil
}

// ReferenceSample returns the sorted ids other than exclude, thinned to at most size
// entries by taking evenly spaced positions. size <= 0 keeps every id.
func ReferenceSample(sortedIDs []string, exclude string, size int) []string {
	others := make([]string, 0, len(sortedIDs))
	for _, id := range sortedIDs {
		if id != exclude {
			others = append(others, id)
		}
	}
	if size <= 0 || len(others) <= size {
		return others
	}

	sample := make([]string, size)
	for k := range sample {
		sample[k] = others[k*len(others)/size]
	}
	return sample
}

// IdentifyBridges scores every concept other than the two domains and returns the
// topN strongest, ties broken by id. topN <= 0 uses the configured top_n.
//
// Identical domains yield an empty ranking.
func (s *Scorer) IdentifyBridges(domain1, domain2 string, topN int) ([]Candidate, error) {
	// Validates both ids against the built space.
	if _, err := s.space.Similarity(domain1, domain2); err != nil {
		return nil, err
	}
	if domain1 == domain2 {
		return []Candidate{}, nil
	}
	if topN <= 0 {
		topN = s.cfg.TopN
	}

	ids := s.space.IDs()
	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if id == domain1 || id == domain2 {
			continue
		}
		c, err := s.score(id, domain1, domain2, ids)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no concept besides %q and %q", ErrEmptyCandidateSet, domain1, domain2)
	}

	Rank(candidates)
	s.log.Debug("bridges ranked",
		"domain1", domain1,
		"domain2", domain2,
		"candidates", len(candidates),
		"top_n", topN)

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// Rank sorts candidates by bridge strength descending, then concept id.
func Rank(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].BridgeStrength != candidates[j].BridgeStrength {
			return candidates[i].BridgeStrength > candidates[j].BridgeStrength
		}
		return candidates[i].ConceptID < candidates[j].ConceptID
	})
}
