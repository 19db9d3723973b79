package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

var (
	searchLimit   int
	searchSpecies string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Retrieves the document excerpts most relevant to the query.

The query is normalized (units, abbreviations, strain names) and routed
to a species index inferred from its wording. Use --species to pin the
routing when you already know the production category.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = default)")
	searchCmd.Flags().StringVar(&searchSpecies, "species", "", "pin routing to a species (broiler, layer, breeder, duck, turkey, global)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	species := domain.Species(searchSpecies)
	if species != "" && !species.Valid() {
		return fmt.Errorf("unknown species %q", searchSpecies)
	}

	hits, err := searchService.Search(cmd.Context(), query, domain.SearchOptions{
		K:       searchLimit,
		Species: species,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}

	return outputSearchList(cmd, hits)
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, hits []domain.SearchHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range hits {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, sourceRef(hits[i].Metadata), hits[i].Score)
		if hits[i].Metadata.Species != "" {
			cmd.Printf("      Species: %s\n", hits[i].Metadata.Species)
		}
		cmd.Printf("      %s\n", excerpt(hits[i].Text, 200))
		cmd.Println()
	}

	return nil
}

// sourceRef renders a document reference with its page when known.
func sourceRef(m domain.ChunkMetadata) string {
	if m.Page > 0 {
		return fmt.Sprintf("%s p.%d", m.Source, m.Page)
	}
	return m.Source
}

// excerpt truncates text for single-line display.
func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
