package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/pathfind"
	"github.com/akash1629/cross-domain/internal/storage"
	"github.com/akash1629/cross-domain/internal/viz"
	"github.com/spf13/cobra"
)

var (
	vizOutput    string
	vizLayout    string
	vizThreshold float64
	vizPath      []string
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	vizCmd.Flags().Float64VarP(&vizThreshold, "threshold", "t", -1, "Minimum similarity for an edge (default: neighborhood_threshold from config)")
	vizCmd.Flags().StringSliceVar(&vizPath, "path", nil, "Highlight the connection path between two domains (--path d1,d2)")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate similarity graph visualization",
	Long: `Generate an interactive HTML visualization of the concept similarity graph.

Concepts are linked when their similarity is at least the threshold; thicker edges
are more similar. With --path, the connection path between two domains is drawn in
red with its endpoints as blue squares and its bridge concepts as green diamonds.

Examples:
  # Generate HTML to stdout
  bridge viz > graph.html

  # Highlight the path between two domains
  bridge viz --path intuition,consciousness --output graph.html

  # Sparser graph with a circular layout
  bridge viz --threshold 0.8 --layout circle --output graph.html`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	if len(vizPath) != 0 && len(vizPath) != 2 {
		exitWithError(ExitError, "--path takes exactly two concept ids, got %d", len(vizPath))
	}

	repoRoot := mustFindRepository()
	engine := mustLoadEngine(repoRoot)

	threshold := vizThreshold
	if !cmd.Flags().Changed("threshold") {
		threshold = engine.Config().NeighborhoodThreshold
	}

	concepts, err := storage.ReadAllConcepts(config.ConceptsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading concepts: %v", err)
	}

	graph, err := viz.BuildSimilarityGraph(engine.Space(), concepts, engine.Novelty(), threshold)
	exitOnError(err, "building graph data")

	if len(vizPath) == 2 {
		path, err := engine.FindConnectionPath(vizPath[0], vizPath[1])
		switch {
		case errors.Is(err, pathfind.ErrNoPathFound):
			appLog.Warn("no connection path to highlight", "domain1", vizPath[0], "domain2", vizPath[1])
		case err != nil:
			exitOnError(err, "finding path")
		default:
			exitOnError(graph.HighlightPath(path), "highlighting path")
		}
	}

	opts := viz.DefaultOptions()
	opts.Layout = vizLayout
	html, err := viz.GenerateHTML(graph, opts)
	if err != nil {
		exitWithError(ExitError, "generating HTML: %v", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(vizOutput, []byte(html), 0644); err != nil {
		exitWithError(ExitError, "writing output file: %v", err)
	}
	if humanOutput {
		fmt.Printf("Visualization written to %s\n", vizOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: vizOutput})
	}
	return nil
}
