// Package discovery ties the vector space, novelty model, bridge scorer and path finder
// together behind one engine.
//
// Queries run concurrently against the current space and citation table under a read
// lock. Rebuilding the space or replacing the citation table builds the new value first
// and then swaps it in under the write lock, so readers never see a partial build and a
// failed build leaves the previous state in place.
package discovery

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/akash1629/cross-domain/internal/bridge"
	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/logger"
	"github.com/akash1629/cross-domain/internal/novelty"
	"github.com/akash1629/cross-domain/internal/pathfind"
	"github.com/akash1629/cross-domain/internal/vectorspace"
	"golang.org/x/sync/errgroup"
)

// Pair names two domains to explain.
type Pair struct {
	Domain1 string `json:"domain1"`
	Domain2 string `json:"domain2"`
}

// Engine answers bridge and path queries over the most recently built space.
type Engine struct {
	cfg config.Config
	log *logger.Logger

	stageMu sync.Mutex
	staged  *vectorspace.Corpus

	mu        sync.RWMutex
	space     *vectorspace.Space
	novelty   *novelty.Model
	scorer    *bridge.Scorer
	finder    *pathfind.Finder
	explainer *pathfind.Explainer
}

// New creates an engine with no built space and no citation data. The configuration is
// validated up front.
func New(cfg config.Config, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		log:     log,
		staged:  vectorspace.NewCorpus(),
		novelty: newNoveltyModel(cfg),
	}, nil
}

func newNoveltyModel(cfg config.Config) *novelty.Model {
	return novelty.New(novelty.Options{Ceiling: cfg.NoveltyCeiling, Fallback: cfg.NoveltyFallback})
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// AddConcept stages a concept for the next build. Staging an id again replaces its
// description (last write wins).
func (e *Engine) AddConcept(id, description string) error {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()

	replaced, err := e.staged.Add(id, description)
	if err != nil {
		return err
	}
	if replaced {
		e.log.Debug("staged concept replaced", "id", id)
	}
	return nil
}

// Staged returns the number of staged concepts.
func (e *Engine) Staged() int {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	return e.staged.Len()
}

// BuildVectorSpace builds a new space from concepts, which replaces the staged corpus,
// including anything staged with AddConcept. With a nil mapping it rebuilds from the
// staged corpus. A failed build leaves both the staged corpus and the space unchanged.
func (e *Engine) BuildVectorSpace(concepts map[string]string, progress vectorspace.ProgressReporter) error {
	e.stageMu.Lock()
	if concepts != nil {
		next := vectorspace.NewCorpus()
		if err := next.AddAll(concepts); err != nil {
			e.stageMu.Unlock()
			return err
		}
		e.staged = next
	}
	corpus := e.staged.Concepts()
	e.stageMu.Unlock()

	space, err := vectorspace.Build(corpus, vectorspace.BuildOptions{
		MaxVocabularySize: e.cfg.MaxVocabularySize,
		Progress:          progress,
		Logger:            e.log,
	})
	if err != nil {
		return err
	}
	e.install(space, nil)
	return nil
}

// UseSpace installs an already built space, typically one restored from a snapshot.
// The staged corpus is not changed.
func (e *Engine) UseSpace(space *vectorspace.Space) error {
	if space == nil {
		return vectorspace.ErrNotBuilt
	}
	e.install(space, nil)
	return nil
}

// AddCitationData replaces the citation table. A negative count fails the call and
// keeps the previous table.
func (e *Engine) AddCitationData(frequencies map[string]int) error {
	model := newNoveltyModel(e.cfg)
	if err := model.AddCitationData(frequencies); err != nil {
		return err
	}
	e.install(nil, model)
	return nil
}

// install swaps in a new space and/or novelty model and rebinds the components that
// depend on them.
func (e *Engine) install(space *vectorspace.Space, model *novelty.Model) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if space != nil {
		e.space = space
	}
	if model != nil {
		e.novelty = model
	}
	if e.space == nil {
		return
	}

	e.scorer = bridge.NewScorer(e.space, e.novelty, e.cfg, e.log)
	e.finder = pathfind.NewFinder(e.space, e.cfg, e.log)
	e.explainer = pathfind.NewExplainer(e.space, e.space, e.scorer, e.novelty, e.finder)
	e.log.Debug("engine state installed",
		"concepts", e.space.Len(),
		"dimensions", e.space.Dimensions(),
		"citations", e.novelty.Len())
}

// Space returns the current space, or nil before the first build.
func (e *Engine) Space() *vectorspace.Space {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.space
}

// Built reports whether a space has been built or installed.
func (e *Engine) Built() bool {
	return e.Space() != nil
}

// Similarity returns the cosine similarity of two concepts.
func (e *Engine) Similarity(id1, id2 string) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.space.Similarity(id1, id2)
}

// Neighborhood returns the ids within threshold of id, excluding id.
func (e *Engine) Neighborhood(id string, threshold float64) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.space.Neighborhood(id, threshold)
}

// NeighborsWithSimilarity returns the neighborhood of id with similarities attached.
func (e *Engine) NeighborsWithSimilarity(id string, threshold float64) ([]vectorspace.Neighbor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.space.NeighborsWithSimilarity(id, threshold)
}

// CalculateNovelty never fails; concepts without citation data get the fallback score.
func (e *Engine) CalculateNovelty(id string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.novelty.CalculateNovelty(id)
}

// CalculateConnectionNovelty returns the mean novelty of two concepts.
func (e *Engine) CalculateConnectionNovelty(id1, id2 string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.novelty.CalculateConnectionNovelty(id1, id2)
}

// Novelty returns the current citation model.
func (e *Engine) Novelty() *novelty.Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.novelty
}

// BridgeStrength scores one bridge between two domains.
func (e *Engine) BridgeStrength(bridgeID, domain1, domain2 string) (bridge.Candidate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.scorer == nil {
		return bridge.Candidate{}, vectorspace.ErrNotBuilt
	}
	return e.scorer.Score(bridgeID, domain1, domain2)
}

// IdentifyBridges ranks the strongest bridges between two domains.
func (e *Engine) IdentifyBridges(domain1, domain2 string, topN int) ([]bridge.Candidate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.scorer == nil {
		return nil, vectorspace.ErrNotBuilt
	}
	return e.scorer.IdentifyBridges(domain1, domain2, topN)
}

// FindConnectionPath returns the cheapest chain of concepts between two domains.
func (e *Engine) FindConnectionPath(domain1, domain2 string) (*pathfind.Path, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.finder == nil {
		return nil, vectorspace.ErrNotBuilt
	}
	return e.finder.FindConnectionPath(domain1, domain2)
}

// ExplainConnection assembles the explanation record for two domains.
func (e *Engine) ExplainConnection(ctx context.Context, domain1, domain2 string) (*pathfind.Explanation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.explainer == nil {
		return nil, vectorspace.ErrNotBuilt
	}
	return e.explainer.ExplainConnection(ctx, domain1, domain2)
}

// ExplainMany explains several pairs in parallel against the same space. Results are in
// input order; the first failure cancels the rest.
func (e *Engine) ExplainMany(ctx context.Context, pairs []Pair) ([]*pathfind.Explanation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.explainer == nil {
		return nil, vectorspace.ErrNotBuilt
	}

	results := make([]*pathfind.Explanation, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range pairs {
		g.Go(func() error {
			exp, err := e.explainer.ExplainConnection(ctx, p.Domain1, p.Domain2)
			if err != nil {
				return fmt.Errorf("explaining %s/%s: %w", p.Domain1, p.Domain2, err)
			}
			results[i] = exp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
