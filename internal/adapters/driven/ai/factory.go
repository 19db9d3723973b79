// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avicola-labs/avisearch-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/avicola-labs/avisearch-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/avicola-labs/avisearch-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/avicola-labs/avisearch-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/avicola-labs/avisearch-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/avicola-labs/avisearch-cli/internal/adapters/driven/llm/openai"
	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Provider names accepted in configuration.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// CreateEmbeddingService creates the embedding service the config names.
func CreateEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            os.Getenv("OPENAI_API_KEY"),
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Dimensions:        cfg.Dimensions,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})

	case ProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama or openai",
			domain.ErrEmbeddingUnavailable)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q",
			domain.ErrEmbeddingUnavailable, cfg.Provider)
	}
}

// CreateGenerator creates the generator the config names.
// An empty provider returns (nil, nil): generation is optional and
// answers degrade to snippet listings without it.
func CreateGenerator(cfg file.GeneratorConfig) (driven.Generator, error) {
	switch cfg.Provider {
	case "":
		return nil, nil

	case ProviderOllama:
		return ollamallm.NewGenerator(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case ProviderOpenAI:
		return openaillm.NewGenerator(openaillm.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	case ProviderAnthropic:
		return anthropicllm.NewGenerator(anthropicllm.Config{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported generator provider %q",
			domain.ErrGeneratorUnavailable, cfg.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity with a short ping.
func CreateAndValidateEmbeddingService(cfg file.EmbeddingConfig) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateGenerator creates a generator and validates
// connectivity. A nil generator passes through: it signals the
// degrade-to-snippets path, not an error.
func CreateAndValidateGenerator(cfg file.GeneratorConfig) (driven.Generator, error) {
	gen, err := CreateGenerator(cfg)
	if err != nil || gen == nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := gen.Ping(ctx); err != nil {
		gen.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrGeneratorUnavailable, err)
	}
	return gen, nil
}
