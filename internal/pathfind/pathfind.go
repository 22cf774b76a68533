// Package pathfind searches the similarity-threshold graph for the cheapest chain of
// concepts linking two domains and assembles explanation records.
//
// Nodes are the concepts of a built space. Two concepts are adjacent when their
// similarity is at least the current threshold, and the edge costs 1 − similarity.
// Edges are discovered lazily from the space during the search. When the domains are
// disconnected at the configured threshold the search is retried on a descending
// ladder of thresholds down to the configured floor.
package pathfind

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/logger"
	"github.com/akash1629/cross-domain/internal/vectorspace"
)

// ErrNoPathFound is returned when the domains stay disconnected at the threshold floor.
var ErrNoPathFound = errors.New("no connection path found")

// Graph is the similarity source searched by a Finder.
type Graph interface {
	Similarity(id1, id2 string) (float64, error)
	NeighborsWithSimilarity(id string, threshold float64) ([]vectorspace.Neighbor, error)
}

// Step is one edge of a path.
type Step struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Similarity float64 `json:"similarity"`
}

// Path is an ordered chain of concepts from the first domain to the second.
type Path struct {
	ConceptIDs []string `json:"concept_ids"`
	Steps      []Step   `json:"steps"`
	Threshold  float64  `json:"threshold"`  // ladder threshold the path was found at
	TotalCost  float64  `json:"total_cost"` // sum of 1 − similarity over the steps
}

// Len returns the number of edges.
func (p *Path) Len() int {
	return len(p.Steps)
}

// Finder runs path searches against one built space. It is safe for concurrent use.
type Finder struct {
	graph Graph
	cfg   config.Config
	log   *logger.Logger
}

// NewFinder creates a finder. A nil logger discards output.
func NewFinder(graph Graph, cfg config.Config, log *logger.Logger) *Finder {
	return &Finder{graph: graph, cfg: cfg, log: log}
}

// Ladder returns the thresholds tried in order: the configured neighborhood threshold,
// then each step lower while the floor is not passed. Values are rounded to 1e-9 so
// that 0.65 − 9·0.05 lands on 0.2.
func Ladder(cfg config.Config) []float64 {
	ladder := []float64{roundThreshold(cfg.NeighborhoodThreshold)}
	if cfg.ThresholdStep <= 0 {
		return ladder
	}
	floor := roundThreshold(cfg.MinThreshold)
	for i := 1; ; i++ {
		t := roundThreshold(cfg.NeighborhoodThreshold - float64(i)*cfg.ThresholdStep)
		if t < floor {
			return ladder
		}
		ladder = append(ladder, t)
	}
}

func roundThreshold(t float64) float64 {
	return math.Round(t*1e9) / 1e9
}

// FindConnectionPath returns the cheapest path from domain1 to domain2, lowering the
// threshold along the ladder until a path appears. Identical domains yield a
// single-element path.
func (f *Finder) FindConnectionPath(domain1, domain2 string) (*Path, error) {
	// Validates both ids against the built space.
	if _, err := f.graph.Similarity(domain1, domain2); err != nil {
		return nil, err
	}
	ladder := Ladder(f.cfg)
	if domain1 == domain2 {
		return &Path{ConceptIDs: []string{domain1}, Steps: []Step{}, Threshold: ladder[0]}, nil
	}

	for _, threshold := range ladder {
		path, err := f.shortestPath(domain1, domain2, threshold)
		if err != nil {
			return nil, err
		}
		if path != nil {
			f.log.Debug("connection path found",
				"domain1", domain1,
				"domain2", domain2,
				"threshold", threshold,
				"length", path.Len())
			return path, nil
		}
		f.log.Debug("no path at threshold, lowering", "domain1", domain1, "domain2", domain2, "threshold", threshold)
	}

	return nil, fmt.Errorf("%w: %q and %q are disconnected at threshold floor %.2f",
		ErrNoPathFound, domain1, domain2, ladder[len(ladder)-1])
}

// shortestPath runs Dijkstra at a fixed threshold. It returns nil without error when
// the target is unreachable.
func (f *Finder) shortestPath(source, target string, threshold float64) (*Path, error) {
	dist := map[string]float64{source: 0}
	prev := map[string]string{}
	prevSim := map[string]float64{}
	done := map[string]bool{}

	pq := &queue{{id: source, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if done[cur.id] {
			continue
		}
		done[cur.id] = true
		if cur.id == target {
			break
		}

		neighbors, err := f.graph.NeighborsWithSimilarity(cur.id, threshold)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbors {
			if done[n.ID] {
				continue
			}
			cost := cur.cost + (1 - n.Similarity)
			if d, seen := dist[n.ID]; seen && cost >= d {
				continue
			}
			dist[n.ID] = cost
			prev[n.ID] = cur.id
			prevSim[n.ID] = n.Similarity
			heap.Push(pq, item{id: n.ID, cost: cost})
		}
	}

	if !done[target] {
		return nil, nil
	}

	var ids []string
	for id := target; ; id = prev[id] {
		ids = append(ids, id)
		if id == source {
			break
		}
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	steps := make([]Step, 0, len(ids)-1)
	for i := 1; i < len(ids); i++ {
		steps = append(steps, Step{From: ids[i-1], To: ids[i], Similarity: prevSim[ids[i]]})
	}
	return &Path{ConceptIDs: ids, Steps: steps, Threshold: threshold, TotalCost: dist[target]}, nil
}

type item struct {
	id   string
	cost float64
}

// queue is a min-heap ordered by cost, then id.
type queue []item

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].id < q[j].id
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
