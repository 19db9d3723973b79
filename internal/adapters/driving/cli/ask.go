package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

var (
	askSpecies string
	askBreed   string
	askSex     string
	askUnit    string
	askAgeDays int
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed documents",
	Long: `Answers a technical question, grounded in the indexed documents.

When --breed and --age-days are both given, the answer comes directly
from the official performance tables and skips retrieval entirely.
Otherwise the question is routed to a species index and the retrieved
excerpts ground a generated answer; without a configured generator the
matching excerpts are shown instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSpecies, "species", "", "pin routing to a species")
	askCmd.Flags().StringVar(&askBreed, "breed", "", "commercial line for table lookups (e.g. \"cobb 500\")")
	askCmd.Flags().StringVar(&askSex, "sex", "", "sex for table lookups (male, female, as_hatched)")
	askCmd.Flags().StringVar(&askUnit, "unit", "", "unit system for table lookups (metric, imperial)")
	askCmd.Flags().IntVar(&askAgeDays, "age-days", -1, "bird age in days for table lookups (-1 = unknown)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full answer envelope as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	species := domain.Species(askSpecies)
	if species != "" && !species.Valid() {
		return fmt.Errorf("unknown species %q", askSpecies)
	}

	result := answerService.Answer(cmd.Context(), question, domain.AnswerContext{
		Species: species,
		Breed:   askBreed,
		Sex:     domain.Sex(askSex),
		Unit:    domain.Unit(askUnit),
		AgeDays: askAgeDays,
	})

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Response)
	if result.Warning != "" {
		cmd.Println()
		cmd.Printf("Note: %s\n", result.Warning)
	}
	if len(result.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, c := range result.Citations {
			if c.Page > 0 {
				cmd.Printf("  - %s p.%d\n", c.Source, c.Page)
			} else {
				cmd.Printf("  - %s\n", c.Source)
			}
		}
	}
	return nil
}
