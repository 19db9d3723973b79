package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Writes the default configuration to the standard path so it can be
edited. Refuses to overwrite an existing file.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Index root:        %s\n", appConfig.Index.Root)
	cmd.Printf("Min chunk length:  %d\n", appConfig.Index.MinChunkLength)
	cmd.Printf("Max chunk size:    %d\n", appConfig.Index.MaxChunkSize)
	cmd.Printf("PDF health scan:   %t\n", appConfig.Index.HealthScan)
	cmd.Printf("Hot reload:        %t\n", appConfig.Index.HotReload)
	cmd.Println()
	cmd.Printf("Search k:          %d\n", appConfig.Search.K)
	cmd.Printf("Threshold tiers:   %s\n", formatTiers(appConfig.Search.ThresholdTiers))
	cmd.Printf("Global mixing:     %t\n", appConfig.Search.GlobalMixing)
	cmd.Println()
	cmd.Printf("Tables dir:        %s\n", appConfig.Tables.Dir)
	cmd.Println()
	cmd.Printf("Embedding:         %s (%s)\n", providerLabel(appConfig.Embedding.Provider), appConfig.Embedding.Model)
	cmd.Printf("Generator:         %s (%s)\n", providerLabel(appConfig.Generator.Provider), appConfig.Generator.Model)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := file.DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration already exists at %s", path)
	}

	if err := file.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("write configuration: %w", err)
	}
	cmd.Printf("Wrote default configuration to %s\n", path)
	return nil
}

func formatTiers(tiers []float64) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = fmt.Sprintf("%.2f", t)
	}
	return strings.Join(parts, ", ")
}

func providerLabel(provider string) string {
	if provider == "" {
		return "none"
	}
	return provider
}
