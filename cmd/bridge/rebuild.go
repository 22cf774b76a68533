package main

import (
	"fmt"
	"os"

	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/discovery"
	"github.com/akash1629/cross-domain/internal/vectorspace"
	"github.com/spf13/cobra"
)

var noProgress bool

func init() {
	rootCmd.AddCommand(rebuildCmd)
	rebuildCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Suppress progress output")
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query database and vector space from source data",
	Long: `Rebuild the SQLite query database from the JSONL source files and build a
fresh vector space snapshot.

Use this after editing concepts.jsonl or citations.jsonl by hand or pulling changes from git.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status            string  `json:"status"`
	Concepts          int     `json:"concepts"`
	Citations         int     `json:"citations"`
	EmptyConcepts     int     `json:"empty_concepts"`
	DistinctTerms     int     `json:"distinct_terms"`
	VocabularySize    int     `json:"vocabulary_size"`
	DurationSeconds   float64 `json:"duration_seconds"`
	SnapshotSizeBytes int64   `json:"snapshot_size_bytes"`
	CorpusHash        string  `json:"corpus_hash"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	conceptsCount, err := db.RebuildConceptsFromJSONL(config.ConceptsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding concepts database: %v", err)
	}
	citationsCount, err := db.RebuildCitationsFromJSONL(config.CitationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding citations database: %v", err)
	}

	corpus, err := db.ConceptCorpus()
	if err != nil {
		exitWithError(ExitDataError, "reading concept corpus: %v", err)
	}

	engine, err := discovery.New(*cfg, appLog)
	exitOnError(err, "creating engine")

	var progress vectorspace.ProgressReporter
	showProgress := humanOutput && !noProgress
	if showProgress {
		progress = vectorspace.ProgressFunc(printProgress)
		fmt.Fprintf(os.Stderr, "Building vector space...\n")
	}
	exitOnError(engine.BuildVectorSpace(corpus, progress), "building vector space")
	if showProgress {
		clearProgress()
	}

	space := engine.Space()
	if err := space.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving vector space: %v", err)
	}

	stats := space.Stats()
	result := RebuildResult{
		Status:          "rebuilt",
		Concepts:        conceptsCount,
		Citations:       citationsCount,
		EmptyConcepts:   stats.EmptyConcepts,
		DistinctTerms:   stats.DistinctTerms,
		VocabularySize:  stats.VocabularySize,
		DurationSeconds: stats.Duration.Seconds(),
		CorpusHash:      space.CorpusHash(),
	}
	// Snapshot size is informational (non-fatal if it fails)
	if size, err := vectorspace.SnapshotSize(repoRoot); err == nil {
		result.SnapshotSizeBytes = size
	} else {
		appLog.Warn("could not determine snapshot size", "error", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt with %d concepts and %d citation entries\n", conceptsCount, citationsCount)
		fmt.Printf("  Vocabulary: %d terms (%d distinct before cap)\n", stats.VocabularySize, stats.DistinctTerms)
		if stats.EmptyConcepts > 0 {
			fmt.Printf("  Concepts without usable terms: %d\n", stats.EmptyConcepts)
		}
		fmt.Printf("  Time elapsed: %s\n", formatDuration(stats.Duration))
		fmt.Printf("  Snapshot size: %s\n", formatBytes(result.SnapshotSizeBytes))
	} else {
		outputJSON(result)
	}
	return nil
}
