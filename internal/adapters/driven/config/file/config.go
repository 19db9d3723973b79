package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the typed application configuration, loaded from a TOML
// file with API keys taken from the environment.
type Config struct {
	Index     IndexConfig     `toml:"index"`
	Search    SearchConfig    `toml:"search"`
	Tables    TablesConfig    `toml:"tables"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Generator GeneratorConfig `toml:"generator"`
}

// IndexConfig controls index building and loading.
type IndexConfig struct {
	// Root is the directory holding one subdirectory per species index.
	Root string `toml:"root"`

	// MinChunkLength drops chunks shorter than this during builds.
	MinChunkLength int `toml:"min_chunk_length"`

	// MaxChunkSize is the chunker window size in characters.
	MaxChunkSize int `toml:"max_chunk_size"`

	// HealthScan toggles the PDF extractability scan during builds.
	HealthScan bool `toml:"health_scan"`

	// ParseTimeout bounds a single file's extraction.
	ParseTimeout time.Duration `toml:"parse_timeout"`

	// HotReload watches the index root and picks up atomically
	// swapped rebuilds without restart.
	HotReload bool `toml:"hot_reload"`
}

// SearchConfig controls query-time retrieval.
type SearchConfig struct {
	// K is the default result count.
	K int `toml:"k"`

	// ThresholdTiers are tried in order; the first tier yielding at
	// least one hit wins. Must end with an accept-all tier.
	ThresholdTiers []float64 `toml:"threshold_tiers"`

	// SpeciesConfidenceCutoff gates metadata species filtering.
	SpeciesConfidenceCutoff float64 `toml:"species_confidence_cutoff"`

	// GlobalMixing tops up thin species results from the global index.
	GlobalMixing bool `toml:"global_mixing"`

	// LexicalBoost scales the lexical-overlap score bonus.
	LexicalBoost float64 `toml:"lexical_boost"`
}

// TablesConfig locates performance-target tables.
type TablesConfig struct {
	// Dir is the performance tables directory.
	Dir string `toml:"dir"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is one of "openai" or "ollama".
	Provider string `toml:"provider"`

	// Model overrides the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Dimensions overrides the model default vector size.
	Dimensions int `toml:"dimensions"`

	// RequestsPerSecond throttles batch embedding during builds.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GeneratorConfig selects and tunes the generation provider.
type GeneratorConfig struct {
	// Provider is one of "openai", "ollama" or "anthropic".
	// Empty disables generation; answers degrade to snippet listings.
	Provider string `toml:"provider"`

	// Model overrides the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// MaxTokens caps answer length.
	MaxTokens int `toml:"max_tokens"`

	// Temperature controls generation randomness.
	Temperature float64 `toml:"temperature"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Index: IndexConfig{
			Root:           defaultDataPath("indexes"),
			MinChunkLength: 50,
			MaxChunkSize:   1000,
			HealthScan:     true,
			ParseTimeout:   2 * time.Minute,
			HotReload:      true,
		},
		Search: SearchConfig{
			K:                       6,
			ThresholdTiers:          []float64{0.20, 0.15, 0.10, 0.0},
			SpeciesConfidenceCutoff: 0.3,
			GlobalMixing:            true,
			LexicalBoost:            0.3,
		},
		Tables: TablesConfig{
			Dir: defaultDataPath("tables"),
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
		},
		Generator: GeneratorConfig{
			Provider:    "ollama",
			MaxTokens:   700,
			Temperature: 0.2,
		},
	}
}

// LoadConfig reads the TOML file at path, layering it over defaults.
// A missing file yields the defaults. A .env file next to the config
// is loaded into the environment for API keys.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}

	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultConfigPath returns ~/.avisearch/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".avisearch", "config.toml")
}

func (c Config) validate() error {
	if c.Search.K <= 0 {
		return fmt.Errorf("config: search.k must be positive, got %d", c.Search.K)
	}
	if len(c.Search.ThresholdTiers) == 0 {
		return fmt.Errorf("config: search.threshold_tiers must not be empty")
	}
	last := c.Search.ThresholdTiers[len(c.Search.ThresholdTiers)-1]
	if last != 0 {
		return fmt.Errorf("config: last threshold tier must be 0 (accept-all), got %g", last)
	}
	for i := 1; i < len(c.Search.ThresholdTiers); i++ {
		if c.Search.ThresholdTiers[i] > c.Search.ThresholdTiers[i-1] {
			return fmt.Errorf("config: threshold tiers must be non-increasing")
		}
	}
	if c.Index.MinChunkLength < 0 {
		return fmt.Errorf("config: index.min_chunk_length must not be negative")
	}
	if c.Index.MaxChunkSize <= 0 {
		return fmt.Errorf("config: index.max_chunk_size must be positive")
	}
	return nil
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".avisearch", name)
}
