package main

import (
	"fmt"
	"strconv"

	"github.com/akash1629/cross-domain/internal/concept"
	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(citationsCmd)
	citationsCmd.AddCommand(citationsSetCmd)
	citationsCmd.AddCommand(citationsListCmd)
}

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Manage citation counts",
	Long: `Commands for the citation counts that drive novelty scores.

Concepts without an entry count as uncited.`,
}

// CitationSetResult is the response for the citations set command.
type CitationSetResult struct {
	Status   string           `json:"status"`
	Citation concept.Citation `json:"citation"`
}

var citationsSetCmd = &cobra.Command{
	Use:   "set <concept-id> <count>",
	Short: "Set the citation count of a concept",
	Args:  cobra.ExactArgs(2),
	RunE:  runCitationsSet,
}

func runCitationsSet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	count, err := strconv.Atoi(args[1])
	if err != nil {
		exitWithError(ExitDataError, "invalid count %q: must be an integer", args[1])
	}
	c := concept.Citation{ConceptID: args[0], Count: count}
	if err := c.Validate(); err != nil {
		exitWithError(ExitDataError, "invalid citation: %v", err)
	}

	citationsPath := config.CitationsPath(repoRoot)
	citations, err := storage.ReadAllCitations(citationsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading citations: %v", err)
	}
	citations, updated := storage.UpsertCitationInSlice(citations, c)
	if err := storage.WriteAllCitations(citationsPath, citations); err != nil {
		exitWithError(ExitDataError, "writing citations: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if _, err := db.RebuildCitationsFromJSONL(citationsPath); err != nil {
		exitWithError(ExitDataError, "updating database: %v", err)
	}

	status := "created"
	if updated {
		status = "updated"
	}
	if humanOutput {
		fmt.Printf("Set citations for %s: %d\n", c.ConceptID, c.Count)
	} else {
		outputJSON(CitationSetResult{Status: status, Citation: c})
	}
	return nil
}

// CitationListResult is the response for the citations list command.
type CitationListResult struct {
	Citations []concept.Citation `json:"citations"`
	Count     int                `json:"count"`
}

var citationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List citation counts, most cited first",
	Args:  cobra.NoArgs,
	RunE:  runCitationsList,
}

func runCitationsList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	citations, err := db.GetAllCitations()
	if err != nil {
		exitWithError(ExitDataError, "querying citations: %v", err)
	}

	if humanOutput {
		if len(citations) == 0 {
			fmt.Println("No citation data")
			return nil
		}
		for _, c := range citations {
			fmt.Printf("%-24s %d\n", c.ConceptID, c.Count)
		}
		return nil
	}
	if citations == nil {
		citations = []concept.Citation{}
	}
	outputJSON(CitationListResult{Citations: citations, Count: len(citations)})
	return nil
}
