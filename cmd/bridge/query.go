package main

import (
	"context"
	"fmt"

	"github.com/akash1629/cross-domain/internal/bridge"
	"github.com/akash1629/cross-domain/internal/discovery"
	"github.com/akash1629/cross-domain/internal/vectorspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(similarityCmd)

	neighborhoodCmd.Flags().Float64P("threshold", "t", -1, "Minimum similarity (default: neighborhood_threshold from config)")
	rootCmd.AddCommand(neighborhoodCmd)

	rootCmd.AddCommand(noveltyCmd)

	bridgesCmd.Flags().IntP("top", "n", 0, "Number of bridges to return (default: top_n from config)")
	rootCmd.AddCommand(bridgesCmd)

	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(explainCmd)
}

// SimilarityResult is the response for the similarity command.
type SimilarityResult struct {
	Concept1   string  `json:"concept1"`
	Concept2   string  `json:"concept2"`
	Similarity float64 `json:"similarity"`
}

var similarityCmd = &cobra.Command{
	Use:   "similarity <id1> <id2>",
	Short: "Cosine similarity of two concepts",
	Args:  cobra.ExactArgs(2),
	RunE:  runSimilarity,
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	engine := mustLoadEngine(mustFindRepository())

	sim, err := engine.Similarity(args[0], args[1])
	exitOnError(err, "computing similarity")

	if humanOutput {
		fmt.Printf("%s <-> %s: %.4f\n", args[0], args[1], sim)
	} else {
		outputJSON(SimilarityResult{Concept1: args[0], Concept2: args[1], Similarity: sim})
	}
	return nil
}

// NeighborhoodResult is the response for the neighborhood command.
type NeighborhoodResult struct {
	ConceptID string                 `json:"concept_id"`
	Threshold float64                `json:"threshold"`
	Neighbors []vectorspace.Neighbor `json:"neighbors"`
	Count     int                    `json:"count"`
}

var neighborhoodCmd = &cobra.Command{
	Use:   "neighborhood <id>",
	Short: "Concepts at or above a similarity threshold",
	Long: `List the concepts whose similarity to <id> is at least the threshold,
most similar first. The concept itself is never included.`,
	Args: cobra.ExactArgs(1),
	RunE: runNeighborhood,
}

func runNeighborhood(cmd *cobra.Command, args []string) error {
	engine := mustLoadEngine(mustFindRepository())

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if !cmd.Flags().Changed("threshold") {
		threshold = engine.Config().NeighborhoodThreshold
	}

	neighbors, err := engine.NeighborsWithSimilarity(args[0], threshold)
	exitOnError(err, "computing neighborhood")
	if neighbors == nil {
		neighbors = []vectorspace.Neighbor{}
	}

	if humanOutput {
		if len(neighbors) == 0 {
			fmt.Printf("No neighbors of %s at %.2f\n", args[0], threshold)
			return nil
		}
		for _, n := range neighbors {
			fmt.Printf("%-28s %.4f\n", n.ID, n.Similarity)
		}
		return nil
	}
	outputJSON(NeighborhoodResult{
		ConceptID: args[0],
		Threshold: threshold,
		Neighbors: neighbors,
		Count:     len(neighbors),
	})
	return nil
}

// NoveltyResult is the response for the novelty command.
// Concept2 is set only for connection novelty.
type NoveltyResult struct {
	Concept1 string  `json:"concept1"`
	Concept2 string  `json:"concept2,omitempty"`
	Novelty  float64 `json:"novelty"`
}

var noveltyCmd = &cobra.Command{
	Use:   "novelty <id> [id2]",
	Short: "Novelty of a concept or of a connection",
	Long: `Report how rarely cited a concept is, in [0, novelty_ceiling].

With two ids, report the connection novelty: the mean of both concepts' novelty.
Concepts without citation data get novelty_fallback.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNovelty,
}

func runNovelty(cmd *cobra.Command, args []string) error {
	engine := mustLoadEngine(mustFindRepository())

	result := NoveltyResult{Concept1: args[0]}
	if len(args) == 2 {
		result.Concept2 = args[1]
		result.Novelty = engine.CalculateConnectionNovelty(args[0], args[1])
	} else {
		result.Novelty = engine.CalculateNovelty(args[0])
	}

	if humanOutput {
		if result.Concept2 != "" {
			fmt.Printf("%s <-> %s: %.4f\n", result.Concept1, result.Concept2, result.Novelty)
		} else {
			fmt.Printf("%s: %.4f\n", result.Concept1, result.Novelty)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// BridgesResult is the response for the bridges command.
type BridgesResult struct {
	Domain1 string             `json:"domain1"`
	Domain2 string             `json:"domain2"`
	Bridges []bridge.Candidate `json:"bridges"`
	Count   int                `json:"count"`
}

var bridgesCmd = &cobra.Command{
	Use:   "bridges <domain1> <domain2>",
	Short: "Rank bridge concepts between two domains",
	Long: `Rank every other concept by bridge strength between the two domains:

  alpha*sim(b, d1) + beta*sim(b, d2) + gamma*novelty(b) - delta*commonality(b)

Ties are broken by concept id.`,
	Args: cobra.ExactArgs(2),
	RunE: runBridges,
}

func runBridges(cmd *cobra.Command, args []string) error {
	engine := mustLoadEngine(mustFindRepository())
	topN, _ := cmd.Flags().GetInt("top")

	candidates, err := engine.IdentifyBridges(args[0], args[1], topN)
	exitOnError(err, "identifying bridges")

	if humanOutput {
		printBridgesHuman(candidates)
	} else {
		outputJSON(BridgesResult{
			Domain1: args[0],
			Domain2: args[1],
			Bridges: candidates,
			Count:   len(candidates),
		})
	}
	return nil
}

var pathCmd = &cobra.Command{
	Use:   "path <domain1> <domain2>",
	Short: "Find the cheapest chain of concepts linking two domains",
	Long: `Find the lowest-cost path through the similarity graph, where concepts are linked
when their similarity is at least the threshold and each link costs 1 - similarity.

When no path exists at neighborhood_threshold the search is retried at lower
thresholds (threshold_step apart) down to min_threshold.`,
	Args: cobra.ExactArgs(2),
	RunE: runPath,
}

func runPath(cmd *cobra.Command, args []string) error {
	engine := mustLoadEngine(mustFindRepository())

	path, err := engine.FindConnectionPath(args[0], args[1])
	exitOnError(err, "finding path")

	if humanOutput {
		fmt.Printf("%s (threshold %.2f, cost %.4f)\n", formatPath(path), path.Threshold, path.TotalCost)
		for _, s := range path.Steps {
			fmt.Printf("  %s -> %s  %.4f\n", s.From, s.To, s.Similarity)
		}
	} else {
		outputJSON(path)
	}
	return nil
}

var explainCmd = &cobra.Command{
	Use:   "explain <domain1> <domain2> [<domain1> <domain2>...]",
	Short: "Explain how two domains connect",
	Long: `Assemble the direct similarity, ranked bridges, connection path and shared
vocabulary of one or more domain pairs.

Several pairs are explained in parallel and returned as a JSON array in argument order.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("requires an even number of concept ids, got %d", len(args))
		}
		return nil
	},
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	engine := mustLoadEngine(mustFindRepository())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 2 {
		exp, err := engine.ExplainConnection(ctx, args[0], args[1])
		exitOnError(err, "explaining connection")
		if humanOutput {
			printExplanationHuman(exp)
		} else {
			outputJSON(exp)
		}
		return nil
	}

	pairs := make([]discovery.Pair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		pairs = append(pairs, discovery.Pair{Domain1: args[i], Domain2: args[i+1]})
	}
	explanations, err := engine.ExplainMany(ctx, pairs)
	exitOnError(err, "explaining connections")

	if humanOutput {
		for i, exp := range explanations {
			if i > 0 {
				fmt.Println()
			}
			printExplanationHuman(exp)
		}
	} else {
		outputJSON(explanations)
	}
	return nil
}
