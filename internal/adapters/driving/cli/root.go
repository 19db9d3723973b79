// Package cli provides the cobra command tree. Commands depend only
// on driving ports; main wires concrete services before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/config/file"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driving"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
)

var version = "dev"

var verbose bool

// Injected services. Nil services make the commands that need them
// fail with a readable error instead of panicking.
var (
	appConfig     file.Config
	searchService driving.SearchService
	answerService driving.AnswerService
	indexService  driving.IndexService
	perfService   driving.PerformanceService
	indexStore    driven.IndexStore
)

// Services aggregates the ports the command tree needs. Indexes is
// only consumed by the MCP server's resource listing.
type Services struct {
	Search      driving.SearchService
	Answer      driving.AnswerService
	Index       driving.IndexService
	Performance driving.PerformanceService
	Indexes     driven.IndexStore
}

var rootCmd = &cobra.Command{
	Use:   "avisearch",
	Short: "Poultry production knowledge base",
	Long: `Avisearch indexes poultry production documents (guides, performance
supplements, field notes) and answers technical questions from them.

Queries are normalized, routed to a species index and grounded in the
retrieved excerpts. Structured performance questions are answered
directly from the official target tables.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Wire injects the configuration and services the commands run with.
func Wire(cfg file.Config, svcs Services, v string) {
	appConfig = cfg
	searchService = svcs.Search
	answerService = svcs.Answer
	indexService = svcs.Index
	perfService = svcs.Performance
	indexStore = svcs.Indexes
	if v != "" {
		version = v
	}
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}
