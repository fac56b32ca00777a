// Package config provides configuration loading and structs for the support retrieval server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Datasets  DatasetsConfig  `yaml:"datasets"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Templates TemplateConfig  `yaml:"templates"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds paths for the database and the persisted vector index.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// DatasetsConfig holds seed dataset paths and the uploads directory.
type DatasetsConfig struct {
	InternalPath string `yaml:"internal_path"`
	ExternalPath string `yaml:"external_path"`
	UploadsDir   string `yaml:"uploads_dir"`
	WatchUploads bool   `yaml:"watch_uploads"`
}

// EmbeddingConfig holds embedder settings. Provider selects the implementation:
// "mock", "remote" (OpenAI-compatible HTTP endpoint), or "onnx" (local model, CGO).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Model      string `yaml:"model"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// RetrievalConfig holds the scorer strategy and every tunable the scorers and the
// engine consume. It is passed once at construction and never mutated afterwards.
type RetrievalConfig struct {
	Strategy         string            `yaml:"strategy"`   // "lexical" or "vector"
	IndexType        string            `yaml:"index_type"` // "memory" or "faiss"
	TopK             int               `yaml:"top_k"`
	MinSimilarity    float64           `yaml:"min_similarity"`
	HighConfidence   float64           `yaml:"high_confidence"`
	MediumConfidence float64           `yaml:"medium_confidence"`
	SubstringBoost   float64           `yaml:"substring_boost"`
	KeywordBoost     float64           `yaml:"keyword_boost"`
	BoostKeywords    []string          `yaml:"boost_keywords"`
	SmallTalk        map[string]string `yaml:"small_talk"`
}

// TemplateConfig holds reply templates. High, Medium, Low, and Context are
// fmt.Sprintf formats taking the candidate response as their single %s argument;
// Fallback is used verbatim when nothing clears the floor.
type TemplateConfig struct {
	High          string `yaml:"high"`
	Medium        string `yaml:"medium"`
	Low           string `yaml:"low"`
	Fallback      string `yaml:"fallback"`
	Context       string `yaml:"context"`
	PreviewLength int    `yaml:"preview_length"`
}

// Load reads and parses the config file at path, applies defaults, expands paths,
// and validates. Configuration errors surface here, at initialization; everything
// downstream trusts the loaded config and never re-validates per request.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	cfg.Datasets.InternalPath = expandPath(cfg.Datasets.InternalPath, configDir)
	cfg.Datasets.ExternalPath = expandPath(cfg.Datasets.ExternalPath, configDir)
	cfg.Datasets.UploadsDir = expandPath(cfg.Datasets.UploadsDir, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on configuration the engine cannot be constructed with.
func (c *Config) Validate() error {
	switch c.Retrieval.Strategy {
	case "lexical", "vector":
	default:
		return fmt.Errorf("unknown retrieval strategy: %q (supported: lexical, vector)", c.Retrieval.Strategy)
	}
	switch c.Embedding.Provider {
	case "mock", "remote", "onnx":
	default:
		return fmt.Errorf("unknown embedding provider: %q (supported: mock, remote, onnx)", c.Embedding.Provider)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MinSimilarity < 0 || c.Retrieval.MinSimilarity > 1 {
		return fmt.Errorf("retrieval.min_similarity must be in [0,1], got %v", c.Retrieval.MinSimilarity)
	}
	if c.Retrieval.MediumConfidence >= c.Retrieval.HighConfidence {
		return fmt.Errorf("retrieval.medium_confidence (%v) must be below high_confidence (%v)",
			c.Retrieval.MediumConfidence, c.Retrieval.HighConfidence)
	}
	if len(c.Retrieval.SmallTalk) == 0 {
		return fmt.Errorf("retrieval.small_talk must not be empty")
	}
	for name, tmpl := range map[string]string{
		"templates.high":   c.Templates.High,
		"templates.medium": c.Templates.Medium,
		"templates.low":    c.Templates.Low,
	} {
		if !strings.Contains(tmpl, "%s") {
			return fmt.Errorf("%s must contain a %%s placeholder for the candidate response", name)
		}
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
