// Command avisearch is the poultry production knowledge base CLI.
package main

import (
	"fmt"
	"os"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/ai"
	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/config/file"
	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/index"
	"github.com/avicola-labs/avisearch-cli/internal/adapters/driving/cli"
	"github.com/avicola-labs/avisearch-cli/internal/chunker"
	"github.com/avicola-labs/avisearch-cli/internal/core/services"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
	"github.com/avicola-labs/avisearch-cli/internal/parsers"
	"github.com/avicola-labs/avisearch-cli/internal/perftables"
	"github.com/avicola-labs/avisearch-cli/internal/species"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.LoadConfig(os.Getenv("AVISEARCH_CONFIG"))
	if err != nil {
		return err
	}

	svcs, cleanup, err := wireServices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cli.Wire(cfg, svcs, version)
	return cli.Execute()
}

// wireServices builds the service graph from the configuration.
// A missing AI provider degrades the dependent services instead of
// failing startup, so offline commands keep working.
func wireServices(cfg file.Config) (cli.Services, func(), error) {
	var svcs cli.Services
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	storeOpts := []index.Option{}
	if cfg.Index.HotReload {
		storeOpts = append(storeOpts, index.WithWatcher())
	}
	indexes, err := index.NewStore(cfg.Index.Root, storeOpts...)
	if err != nil {
		return svcs, cleanup, fmt.Errorf("open index store: %w", err)
	}
	closers = append(closers, func() { _ = indexes.Close() })
	svcs.Indexes = indexes

	perf := perftables.NewStore(cfg.Tables.Dir)
	svcs.Performance = perf

	embedder, err := ai.CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	}

	generator, err := ai.CreateGenerator(cfg.Generator)
	if err != nil {
		logger.Warn("Generator unavailable: %v", err)
	}
	if generator != nil {
		closers = append(closers, func() { _ = generator.Close() })
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return svcs, cleanup, fmt.Errorf("open prompt store: %w", err)
	}

	if embedder != nil {
		closers = append(closers, func() { _ = embedder.Close() })

		search, err := services.NewSearchService(indexes, embedder, species.New(), services.SearchConfig{
			ThresholdTiers:          cfg.Search.ThresholdTiers,
			SpeciesConfidenceCutoff: cfg.Search.SpeciesConfidenceCutoff,
			LexicalBoost:            cfg.Search.LexicalBoost,
			GlobalMixing:            cfg.Search.GlobalMixing,
		})
		if err != nil {
			return svcs, cleanup, err
		}
		svcs.Search = search

		registry := parsers.NewRegistry(parsers.DefaultCapabilities(),
			parsers.WithTimeout(cfg.Index.ParseTimeout))
		builder := services.NewIndexBuilder(registry, embedder,
			index.NewWriter(cfg.Index.Root),
			chunker.New(
				chunker.WithMinLength(cfg.Index.MinChunkLength),
				chunker.WithMaxSize(cfg.Index.MaxChunkSize),
			))
		builder.SetIndexStore(indexes)
		svcs.Index = builder

		svcs.Answer = services.NewAnswerService(search, perf, generator, prompts, services.GenerationOptions{
			MaxTokens:   cfg.Generator.MaxTokens,
			Temperature: cfg.Generator.Temperature,
		})
	}

	return svcs, cleanup, nil
}
