package viz

import (
	"fmt"

	"github.com/akash1629/cross-domain/internal/concept"
	"github.com/akash1629/cross-domain/internal/pathfind"
	"github.com/akash1629/cross-domain/internal/vectorspace"
)

// SimilarityGraph is the built space the graph is read from.
type SimilarityGraph interface {
	IDs() []string
	NeighborsWithSimilarity(id string, threshold float64) ([]vectorspace.Neighbor, error)
}

// NoveltySource scores how rarely cited a concept is.
type NoveltySource interface {
	CalculateNovelty(id string) float64
}

// BuildSimilarityGraph constructs one node per concept of the space and one edge per
// pair whose similarity is at least threshold. Concept records supply labels and
// tooltips; ids without a record are labelled by id.
func BuildSimilarityGraph(space SimilarityGraph, concepts []concept.Concept, novelty NoveltySource, threshold float64) (*GraphData, error) {
	records := make(map[string]concept.Concept, len(concepts))
	for _, c := range concepts {
		records[c.ID] = c
	}

	ids := space.IDs()
	graph := &GraphData{
		Nodes:     make([]Node, 0, len(ids)),
		Threshold: threshold,
	}
	degree := make(map[string]int)

	for _, id := range ids {
		neighbors, err := space.NeighborsWithSimilarity(id, threshold)
		if err != nil {
			return nil, fmt.Errorf("neighbors of %s: %w", id, err)
		}
		for _, n := range neighbors {
			degree[id]++
			// Each unordered pair is visited from both ends; keep one.
			if id < n.ID {
				graph.Edges = append(graph.Edges, Edge{Source: id, Target: n.ID, Similarity: n.Similarity})
			}
		}
	}

	for _, id := range ids {
		graph.Nodes = append(graph.Nodes, newConceptNode(id, records, novelty, degree[id]))
	}
	return graph, nil
}

// newConceptNode creates a visualization node for a concept id.
func newConceptNode(id string, records map[string]concept.Concept, novelty NoveltySource, degree int) Node {
	node := Node{ID: id, Type: NodeTypeConcept, Label: id, Degree: degree}
	if c, ok := records[id]; ok {
		node.Label = c.DisplayName()
		node.Aliases = c.Aliases
		node.Description = c.Description
	}
	if novelty != nil {
		node.Novelty = novelty.CalculateNovelty(id)
	}
	return node
}

// HighlightPath marks the endpoints of p as domains, its interior concepts as bridges
// and its steps as path edges. Steps below the graph threshold (found further down the
// threshold ladder) are added as edges.
func (g *GraphData) HighlightPath(p *pathfind.Path) error {
	if p == nil {
		return nil
	}

	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
	}
	last := len(p.ConceptIDs) - 1
	for i, id := range p.ConceptIDs {
		j, ok := index[id]
		if !ok {
			return fmt.Errorf("path concept %q is not in the graph", id)
		}
		if i == 0 || i == last {
			g.Nodes[j].Type = NodeTypeDomain
		} else {
			g.Nodes[j].Type = NodeTypeBridge
		}
	}

	for _, s := range p.Steps {
		source, target := s.From, s.To
		if target < source {
			source, target = target, source
		}
		if k := g.findEdge(source, target); k >= 0 {
			g.Edges[k].OnPath = true
			continue
		}
		g.Edges = append(g.Edges, Edge{Source: source, Target: target, Similarity: s.Similarity, OnPath: true})
		g.Nodes[index[source]].Degree++
		g.Nodes[index[target]].Degree++
	}
	return nil
}

// findEdge returns the index of the edge source--target, or -1.
func (g *GraphData) findEdge(source, target string) int {
	for k, e := range g.Edges {
		if e.Source == source && e.Target == target {
			return k
		}
	}
	return -1
}
