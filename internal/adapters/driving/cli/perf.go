package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/perftables"
)

var (
	perfSex     string
	perfUnit    string
	perfAgeDays int
	perfNearest bool
	perfJSON    bool
)

var perfCmd = &cobra.Command{
	Use:   "perf [line]",
	Short: "Look up official performance targets",
	Long: `Looks up a performance-target row for a commercial line at a given
age. The line name is canonicalized, so "Cobb 500", "cobb-500" and
"cobb500" name the same table.

An exact age miss for male or female birds retries the as-hatched
curve; with --nearest the closest published age answers instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPerf,
}

func init() {
	perfCmd.Flags().IntVar(&perfAgeDays, "age", -1, "bird age in days (required)")
	perfCmd.Flags().StringVar(&perfSex, "sex", "", "sex (male, female, as_hatched)")
	perfCmd.Flags().StringVar(&perfUnit, "unit", "", "unit system (metric, imperial)")
	perfCmd.Flags().BoolVar(&perfNearest, "nearest", false, "fall back to the closest published age")
	perfCmd.Flags().BoolVar(&perfJSON, "json", false, "output the row as JSON")
	rootCmd.AddCommand(perfCmd)
}

func runPerf(cmd *cobra.Command, args []string) error {
	if perfService == nil {
		return errors.New("performance table service not configured")
	}
	if perfAgeDays < 0 {
		return errors.New("--age is required")
	}

	line := args[0]
	sex := perftables.CanonSex(perfSex)
	unit := perftables.CanonUnit(perfUnit)

	rec, err := perfService.Get(cmd.Context(), line, sex, unit, perfAgeDays)
	if err != nil {
		return fmt.Errorf("table lookup failed: %w", err)
	}

	var nearestUsed bool
	if rec == nil && perfNearest {
		rec, err = perfService.Nearest(cmd.Context(), line, sex, unit, perfAgeDays)
		if err != nil {
			return fmt.Errorf("table lookup failed: %w", err)
		}
		nearestUsed = rec != nil
	}

	if rec == nil {
		cmd.Printf("No target published for %s (%s, %s) at %d days.\n", line, sex, unit, perfAgeDays)
		return nil
	}

	if perfJSON {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal row: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%s, %s, %s, %d days:\n", rec.Line, rec.Sex, rec.Unit, rec.AgeDays)
	if rec.WeightG > 0 {
		cmd.Printf("  target weight:  %.0f g\n", rec.WeightG)
	}
	if rec.WeightLb > 0 {
		cmd.Printf("  target weight:  %.2f lb\n", rec.WeightLb)
	}
	if rec.DailyGainG > 0 {
		cmd.Printf("  daily gain:     %.1f g\n", rec.DailyGainG)
	}
	if rec.CumFCR > 0 {
		cmd.Printf("  cumulative FCR: %.2f\n", rec.CumFCR)
	}
	if rec.SourceDoc != "" {
		cmd.Printf("  source:         %s\n", sourceRef(domain.ChunkMetadata{Source: rec.SourceDoc, Page: rec.Page}))
	}
	if nearestUsed {
		cmd.Printf("\nNote: no target published at %d days, showing %d days.\n", perfAgeDays, rec.AgeDays)
	}
	return nil
}
