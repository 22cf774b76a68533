// Package viz renders the concept similarity graph as an interactive HTML page.
package viz

// Node types.
const (
	NodeTypeConcept = "concept"
	NodeTypeDomain  = "domain" // endpoint of a highlighted path
	NodeTypeBridge  = "bridge" // interior concept of a highlighted path
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes     []Node  `json:"nodes"`
	Edges     []Edge  `json:"edges"`
	Threshold float64 `json:"threshold"`
}

// Node represents one concept of the space.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Display
	Label string `json:"label"`

	// Tooltip fields
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Novelty     float64  `json:"novelty"`

	// Sizing
	Degree int `json:"degree"`
}

// Edge links two concepts whose similarity is at least the graph threshold.
// Source sorts before Target.
type Edge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
	OnPath     bool    `json:"onPath"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
