package main

import (
	"fmt"
	"strings"

	"github.com/akash1629/cross-domain/internal/concept"
	"github.com/akash1629/cross-domain/internal/config"
	"github.com/akash1629/cross-domain/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(conceptCmd)

	conceptAddCmd.Flags().StringP("name", "n", "", "Display name")
	conceptAddCmd.Flags().StringP("aliases", "a", "", "Comma-separated aliases")
	conceptAddCmd.Flags().StringP("description", "d", "", "Description text (feeds the vector space)")
	conceptAddCmd.Flags().Bool("replace", false, "Replace an existing concept with the same id")
	conceptCmd.AddCommand(conceptAddCmd)

	conceptCmd.AddCommand(conceptGetCmd)
	conceptCmd.AddCommand(conceptListCmd)

	conceptSearchCmd.Flags().IntP("limit", "l", DefaultSearchLimit, "Maximum results")
	conceptCmd.AddCommand(conceptSearchCmd)

	conceptCmd.AddCommand(conceptDeleteCmd)
}

var conceptCmd = &cobra.Command{
	Use:   "concept",
	Short: "Manage concepts",
	Long:  `Commands for managing the concepts whose descriptions form the vector space.`,
}

// ConceptAddResult is the response for the concept add command.
type ConceptAddResult struct {
	Status  string          `json:"status"`
	Concept concept.Concept `json:"concept"`
}

var conceptAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a new concept",
	Long: `Add a concept to concepts.jsonl.

The description is the text the vector space is built from. Run 'bridge rebuild'
afterwards to refresh the cached vector space.`,
	Args: cobra.ExactArgs(1),
	RunE: runConceptAdd,
}

// parseAliases splits a comma-separated alias list, dropping blanks.
func parseAliases(s string) []string {
	var aliases []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}
	return aliases
}

func runConceptAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	name, _ := cmd.Flags().GetString("name")
	aliasesStr, _ := cmd.Flags().GetString("aliases")
	description, _ := cmd.Flags().GetString("description")
	replace, _ := cmd.Flags().GetBool("replace")

	c := concept.Concept{
		ID:          args[0],
		Name:        name,
		Aliases:     parseAliases(aliasesStr),
		Description: description,
	}
	if err := c.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "invalid concept: %v", err)
	}

	conceptsPath := config.ConceptsPath(repoRoot)
	concepts, err := storage.ReadAllConcepts(conceptsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading concepts: %v", err)
	}

	status := "created"
	if _, found := storage.FindConceptByID(concepts, c.ID); found {
		if !replace {
			exitWithError(ExitDataError, "concept with id %q already exists (use --replace)", c.ID)
		}
		concepts, _ = storage.UpsertConceptInSlice(concepts, c)
		if err := storage.WriteAllConcepts(conceptsPath, concepts); err != nil {
			exitWithError(ExitDataError, "writing concepts: %v", err)
		}
		status = "replaced"
	} else if err := storage.AppendConcept(conceptsPath, c); err != nil {
		exitWithError(ExitDataError, "writing concept: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if _, err := db.RebuildConceptsFromJSONL(conceptsPath); err != nil {
		exitWithError(ExitDataError, "updating database: %v", err)
	}

	if humanOutput {
		fmt.Print(formatConceptHuman(c, strings.ToUpper(status[:1])+status[1:]+" concept: "))
	} else {
		outputJSON(ConceptAddResult{Status: status, Concept: c})
	}
	return nil
}

var conceptGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a concept by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runConceptGet,
}

func runConceptGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	c, err := db.GetConceptByID(args[0])
	if err != nil {
		exitWithError(ExitDataError, "querying concept: %v", err)
	}
	if c == nil {
		exitWithError(ExitUnknownConcept, "concept %q not found", args[0])
	}

	if humanOutput {
		fmt.Print(formatConceptHuman(*c, ""))
	} else {
		outputJSON(c)
	}
	return nil
}

// ConceptListResult is the response for the concept list and search commands.
type ConceptListResult struct {
	Concepts []concept.Concept `json:"concepts"`
	Count    int               `json:"count"`
}

func outputConceptList(concepts []concept.Concept) {
	if humanOutput {
		if len(concepts) == 0 {
			fmt.Println("No concepts found")
			return
		}
		for _, c := range concepts {
			fmt.Printf("%-24s %s\n", c.ID, truncateString(c.Description, DescriptionMaxLen))
		}
		fmt.Printf("\nTotal: %d concepts\n", len(concepts))
		return
	}
	if concepts == nil {
		concepts = []concept.Concept{}
	}
	outputJSON(ConceptListResult{Concepts: concepts, Count: len(concepts)})
}

var conceptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all concepts",
	Args:  cobra.NoArgs,
	RunE:  runConceptList,
}

func runConceptList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	concepts, err := db.GetAllConcepts()
	if err != nil {
		exitWithError(ExitDataError, "querying concepts: %v", err)
	}
	outputConceptList(concepts)
	return nil
}

var conceptSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over concepts",
	Args:  cobra.ExactArgs(1),
	RunE:  runConceptSearch,
}

func runConceptSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	limit, _ := cmd.Flags().GetInt("limit")

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	concepts, err := db.SearchConcepts(args[0], limit)
	if err != nil {
		exitWithError(ExitError, "searching concepts: %v", err)
	}
	outputConceptList(concepts)
	return nil
}

var conceptDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a concept",
	Long:  `Delete a concept and its citation entry.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConceptDelete,
}

func runConceptDelete(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	id := args[0]

	conceptsPath := config.ConceptsPath(repoRoot)
	concepts, err := storage.ReadAllConcepts(conceptsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading concepts: %v", err)
	}
	concepts, found := storage.DeleteConceptFromSlice(concepts, id)
	if !found {
		exitWithError(ExitUnknownConcept, "concept %q not found", id)
	}
	if err := storage.WriteAllConcepts(conceptsPath, concepts); err != nil {
		exitWithError(ExitDataError, "writing concepts: %v", err)
	}

	citationsPath := config.CitationsPath(repoRoot)
	citations, err := storage.ReadAllCitations(citationsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading citations: %v", err)
	}
	if citations, removed := storage.DeleteCitationFromSlice(citations, id); removed {
		if err := storage.WriteAllCitations(citationsPath, citations); err != nil {
			exitWithError(ExitDataError, "writing citations: %v", err)
		}
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if _, err := db.RebuildConceptsFromJSONL(conceptsPath); err != nil {
		exitWithError(ExitDataError, "updating database: %v", err)
	}
	if _, err := db.RebuildCitationsFromJSONL(citationsPath); err != nil {
		exitWithError(ExitDataError, "updating database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Deleted concept: %s\n", id)
	} else {
		outputJSON(StatusResponse{Status: "deleted"})
	}
	return nil
}
