package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %q", cfg.Server.Host)
	}
	if cfg.Retrieval.Strategy != "lexical" {
		t.Errorf("default strategy: got %q", cfg.Retrieval.Strategy)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("default top_k: got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinSimilarity != 0.05 {
		t.Errorf("default min_similarity: got %v", cfg.Retrieval.MinSimilarity)
	}
	if len(cfg.Retrieval.SmallTalk) == 0 {
		t.Error("default small talk map is empty")
	}
	if len(cfg.Retrieval.BoostKeywords) == 0 {
		t.Error("default boost keyword list is empty")
	}
	if cfg.Templates.Fallback == "" {
		t.Error("default fallback template is empty")
	}
}

func TestLoad_ExpandsRelativePaths(t *testing.T) {
	path := writeConfig(t, "storage:\n  database_path: ./data/support.db\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !filepath.IsAbs(cfg.Storage.DatabasePath) {
		t.Errorf("database path not expanded: %q", cfg.Storage.DatabasePath)
	}
	if filepath.Dir(filepath.Dir(cfg.Storage.DatabasePath)) != filepath.Dir(path) {
		t.Errorf("./ path should be relative to config dir, got %q", cfg.Storage.DatabasePath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"unknown strategy", func(c *Config) { c.Retrieval.Strategy = "tfidf" }, true},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "cohere" }, true},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = -1 }, true},
		{"floor out of range", func(c *Config) { c.Retrieval.MinSimilarity = 1.5 }, true},
		{"breakpoints misordered", func(c *Config) { c.Retrieval.MediumConfidence = 0.9 }, true},
		{"empty small talk", func(c *Config) { c.Retrieval.SmallTalk = map[string]string{} }, true},
		{"template missing placeholder", func(c *Config) { c.Templates.Medium = "no placeholder" }, true},
		{"vector strategy valid", func(c *Config) { c.Retrieval.Strategy = "vector" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			ApplyDefaults(&cfg)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
