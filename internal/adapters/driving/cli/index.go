package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
)

var (
	indexSpecies      string
	indexSkipHealthPD bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index management commands",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build [source-dir]",
	Short: "Build a species index from a document directory",
	Long: `Walks the source directory, extracts and chunks every supported
document, embeds the chunks and atomically replaces the index for the
species. Per-file failures are reported at the end, never fatal.

PDF inputs are quality-scanned first so scanned or redacted documents
are flagged before their (often empty) extraction lands in the index.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexBuild,
}

func init() {
	indexBuildCmd.Flags().StringVar(&indexSpecies, "species", "global", "species label for the index (broiler, layer, breeder, duck, turkey, global)")
	indexBuildCmd.Flags().BoolVar(&indexSkipHealthPD, "no-health-scan", false, "skip the PDF quality pre-scan")
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	species := domain.Species(indexSpecies)
	if !species.Valid() {
		return fmt.Errorf("unknown species %q", indexSpecies)
	}

	healthScan := appConfig.Index.HealthScan && !indexSkipHealthPD

	report, err := indexService.Build(cmd.Context(), driving.BuildOptions{
		SourceDir:      args[0],
		Species:        species,
		MinChunkLength: appConfig.Index.MinChunkLength,
		HealthScan:     healthScan,
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %d files into the %s index.\n",
		report.ChunksKept, report.FilesSeen, species)
	if report.ChunksDropped > 0 {
		cmd.Printf("Dropped %d short chunks.\n", report.ChunksDropped)
	}
	if report.FilesFailed > 0 {
		cmd.Printf("\n%d file(s) failed:\n", report.FilesFailed)
		for path, msg := range report.Errors {
			cmd.Printf("  - %s: %s\n", path, msg)
		}
	}
	return nil
}
