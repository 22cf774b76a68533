package pathfind

import (
	"context"
	"errors"
	"time"

	"github.com/akash1629/cross-domain/internal/bridge"
	"github.com/akash1629/cross-domain/internal/vectorspace"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultSharedTerms is the number of shared vocabulary terms listed in an explanation.
const DefaultSharedTerms = 10

// TermSource lists the vocabulary terms two concepts have in common.
type TermSource interface {
	SharedTerms(id1, id2 string, n int) ([]vectorspace.TermWeight, error)
}

// Ranker ranks bridge candidates between two domains.
type Ranker interface {
	IdentifyBridges(domain1, domain2 string, topN int) ([]bridge.Candidate, error)
}

// ConnectionNovelty scores how novel a link between two concepts is.
type ConnectionNovelty interface {
	CalculateConnectionNovelty(id1, id2 string) float64
}

// Explanation gathers everything computed about one pair of domains.
type Explanation struct {
	ID                string                   `json:"id"`
	Domain1           string                   `json:"domain1"`
	Domain2           string                   `json:"domain2"`
	DirectSimilarity  float64                  `json:"direct_similarity"`
	ConnectionNovelty float64                  `json:"connection_novelty"`
	Bridges           []bridge.Candidate       `json:"bridges"`
	StrongestBridge   *bridge.Candidate        `json:"strongest_bridge"`
	Path              *Path                    `json:"path"`
	PathFound         bool                     `json:"path_found"`
	PathThreshold     float64                  `json:"path_threshold,omitempty"`
	SharedTerms       []vectorspace.TermWeight `json:"shared_terms"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// Explainer assembles explanation records from already-built components.
type Explainer struct {
	graph   Graph
	terms   TermSource
	ranker  Ranker
	novelty ConnectionNovelty
	finder  *Finder
}

// NewExplainer creates an explainer over one space, ranker and novelty model.
func NewExplainer(graph Graph, terms TermSource, ranker Ranker, novelty ConnectionNovelty, finder *Finder) *Explainer {
	return &Explainer{graph: graph, terms: terms, ranker: ranker, novelty: novelty, finder: finder}
}

// ExplainConnection computes the bridge ranking and the connection path concurrently
// and combines them with the direct similarity. A missing path is reported through
// PathFound and an empty candidate set as an empty Bridges list; every other failure
// is returned.
func (e *Explainer) ExplainConnection(ctx context.Context, domain1, domain2 string) (*Explanation, error) {
	direct, err := e.graph.Similarity(domain1, domain2)
	if err != nil {
		return nil, err
	}

	var (
		bridges []bridge.Candidate
		path    *Path
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		bridges, err = e.ranker.IdentifyBridges(domain1, domain2, 0)
		if errors.Is(err, bridge.ErrEmptyCandidateSet) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := e.finder.FindConnectionPath(domain1, domain2)
		if errors.Is(err, ErrNoPathFound) {
			return nil
		}
		path = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shared, err := e.terms.SharedTerms(domain1, domain2, DefaultSharedTerms)
	if err != nil {
		return nil, err
	}

	exp := &Explanation{
		ID:                uuid.NewString(),
		Domain1:           domain1,
		Domain2:           domain2,
		DirectSimilarity:  direct,
		ConnectionNovelty: e.novelty.CalculateConnectionNovelty(domain1, domain2),
		Bridges:           bridges,
		Path:              path,
		PathFound:         path != nil,
		SharedTerms:       shared,
		GeneratedAt:       time.Now().UTC(),
	}
	if len(bridges) > 0 {
		strongest := bridges[0]
		exp.StrongestBridge = &strongest
	}
	if path != nil {
		exp.PathThreshold = path.Threshold
	}
	if exp.Bridges == nil {
		exp.Bridges = []bridge.Candidate{}
	}
	if exp.SharedTerms == nil {
		exp.SharedTerms = []vectorspace.TermWeight{}
	}
	return exp, nil
}
