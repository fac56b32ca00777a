// Package main is the supportai CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ishaandev07/WebDevDynamics/internal/config"
	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
	"github.com/ishaandev07/WebDevDynamics/internal/embedding"
	"github.com/ishaandev07/WebDevDynamics/internal/engine"
	"github.com/ishaandev07/WebDevDynamics/internal/ingest"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/internal/server"
	"github.com/ishaandev07/WebDevDynamics/internal/storage"
	"github.com/ishaandev07/WebDevDynamics/internal/vector"
	"github.com/ishaandev07/WebDevDynamics/internal/watcher"
	"github.com/ishaandev07/WebDevDynamics/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/supportai/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used instead.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// API keys for the remote embedding provider live in .env during development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("supportai version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var watchSvc *watcher.Watcher
	if cfg.Datasets.WatchUploads {
		watchOpts := []watcher.Option{watcher.WithLogger(logger)}
		eng := components.Engine
		store := components.Corpus
		watchSvc = watcher.New(cfg.Datasets.UploadsDir, func(path string) {
			added, err := ingestFile(store, path)
			if err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
				return
			}
			if added == 0 {
				return
			}
			logger.Info("watched dataset ingested", zap.String("path", path), zap.Int("records", added))
			if err := eng.Rebuild(context.Background()); err != nil {
				logger.Error("rebuild after watched ingest failed", zap.Error(err))
			}
		}, watchOpts...)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start uploads watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Engine,
		components.Corpus,
		components.Storage,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if cfg.Storage.VectorIndexPath != "" {
		if err := components.Engine.SaveIndex(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector index save failed",
				zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8000", "server URL (empty = run retrieval in-process)")
	sessionID := fs.String("session", "", "session id to continue")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: supportai ask [flags] <message>")
		os.Exit(1)
	}
	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		fmt.Println("Usage: supportai ask [flags] <message>")
		os.Exit(1)
	}

	var answer models.Answer
	if *serverURL != "" {
		body, _ := json.Marshal(map[string]string{"message": message, "session_id": *sessionID})
		resp, err := http.Post(*serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
			fmt.Fprintf(os.Stderr, "Decode response failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components := mustInitialize(*configPath)
		defer components.Close()
		answer = components.Engine.Answer(context.Background(), message, *sessionID)
	}

	fmt.Println(answer.Reply)
	if len(answer.Results) > 0 {
		fmt.Printf("\n# bucket: %s, top similarity: %.3f, session: %s\n",
			answer.Bucket, answer.Results[0].Similarity, answer.SessionID)
	} else {
		fmt.Printf("\n# bucket: %s, session: %s\n", answer.Bucket, answer.SessionID)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8000", "server URL (empty = run retrieval in-process)")
	limit := fs.Int("limit", 0, "number of results (0 = configured top_k)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: supportai search [flags] <query>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: supportai search [flags] <query>")
		os.Exit(1)
	}

	var results []models.MatchResult
	if *serverURL != "" {
		u := *serverURL + "/api/v1/search?q=" + url.QueryEscape(query)
		if *limit > 0 {
			u += fmt.Sprintf("&limit=%d", *limit)
		}
		resp, err := http.Get(u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Results []models.MatchResult `json:"results"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Decode response failed: %v\n", err)
			os.Exit(1)
		}
		results = out.Results
	} else {
		components := mustInitialize(*configPath)
		defer components.Close()
		var err error
		results, err = components.Engine.Search(context.Background(), query, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(results) == 0 {
			fmt.Println("No matches.")
			return
		}
		for i, r := range results {
			fmt.Printf("%d. [%.3f] (%s) %s\n   %s\n", i+1, r.Similarity, r.Source, r.Query, r.Response)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Decode response failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
	case "text":
		fmt.Printf("records:         %v\n", status["records"])
		fmt.Printf("corpus_version:  %v\n", status["corpus_version"])
		fmt.Printf("strategy:        %v\n", status["strategy"])
		if v, ok := status["disk_usage_bytes"]; ok {
			fmt.Printf("disk_usage:      %v bytes\n", v)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage  storage.Storage
	Embedder embedding.Embedder
	Corpus   *corpus.Store
	Engine   *engine.Engine
}

func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func mustInitialize(configPath string) *Components {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	return components
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	store := corpus.NewStore()
	seedCorpus(store, cfg, logger)

	eng, err := engine.New(context.Background(), engine.Options{
		Store:     store,
		Retrieval: cfg.Retrieval,
		Templates: cfg.Templates,
		Embedder:  embedder,
		NewIndex:  indexFactory(cfg, store, logger),
		Logger:    logger,
	})
	if err != nil {
		_ = st.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	logger.Info("components initialized",
		zap.Int("corpus_records", store.Len()),
		zap.String("strategy", cfg.Retrieval.Strategy),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.Bool("faiss_available", vector.IsFAISSAvailable()))

	return &Components{
		Storage:  st,
		Embedder: embedder,
		Corpus:   store,
		Engine:   eng,
	}, nil
}

// newEmbedder builds the configured embedding provider. The remote provider
// fails fast on a missing API key; ONNX falls back to the mock embedder when
// the model cannot be loaded, so the server still comes up.
func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "remote":
		return embedding.NewRemoteEmbedder(embedding.RemoteConfig{
			BaseURL:    cfg.Embedding.BaseURL,
			APIKeyEnv:  cfg.Embedding.APIKeyEnv,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			CacheSize:  cfg.Embedding.CacheSize,
		})
	case "onnx":
		onnxEmbedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			logger.Warn("ONNX embedder unavailable, falling back to mock", zap.Error(err))
			return embedding.NewMockEmbedder(cfg.Embedding.Dimensions), nil
		}
		return onnxEmbedder, nil
	default:
		return embedding.NewMockEmbedder(cfg.Embedding.Dimensions), nil
	}
}

// indexFactory returns the engine's per-rebuild index constructor. The first
// build tries loading a persisted index; a persisted index only counts when its
// size matches the current corpus, otherwise a fresh one is embedded.
func indexFactory(cfg *config.Config, store *corpus.Store, logger *zap.Logger) func() (vector.Index, error) {
	loadAttempted := false
	return func() (vector.Index, error) {
		idx, err := vector.NewIndex(cfg.Retrieval.IndexType, cfg.Embedding.Dimensions)
		if err != nil {
			if cfg.Retrieval.IndexType != "memory" && cfg.Retrieval.IndexType != "" {
				logger.Warn("failed to create vector index, falling back to memory",
					zap.String("requested_type", cfg.Retrieval.IndexType),
					zap.Error(err))
				return vector.NewIndex("memory", cfg.Embedding.Dimensions)
			}
			return nil, err
		}
		if !loadAttempted && cfg.Storage.VectorIndexPath != "" {
			loadAttempted = true
			if loadErr := idx.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
				logger.Warn("vector index load skipped",
					zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(loadErr))
			} else if idx.Size() != 0 && idx.Size() != store.Len() {
				logger.Warn("persisted vector index does not match corpus, rebuilding",
					zap.Int("index_size", idx.Size()),
					zap.Int("corpus_size", store.Len()))
				_ = idx.Close()
				return vector.NewIndex(cfg.Retrieval.IndexType, cfg.Embedding.Dimensions)
			}
		}
		return idx, nil
	}
}

// seedCorpus loads the configured seed datasets plus any previously uploaded
// files. When no external dataset is configured or readable, a small built-in
// sample set keeps the engine usable out of the box.
func seedCorpus(store *corpus.Store, cfg *config.Config, logger *zap.Logger) {
	loadSeed := func(path string, source models.Source) {
		if path == "" {
			return
		}
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("seed dataset unavailable", zap.String("path", path), zap.Error(err))
			return
		}
		defer f.Close()
		inputs, err := ingest.ParseDataset(path, f)
		if err != nil {
			logger.Warn("seed dataset parse failed", zap.String("path", path), zap.Error(err))
			return
		}
		added := store.AddRecords(inputs, source)
		logger.Info("seed dataset loaded",
			zap.String("path", path),
			zap.String("source", string(source)),
			zap.Int("records", added))
	}

	loadSeed(cfg.Datasets.InternalPath, models.SourceInternal)

	before := store.Len()
	loadSeed(cfg.Datasets.ExternalPath, models.SourceExternal)
	if store.Len() == before {
		added := store.AddRecords(builtinSamples, models.SourceExternal)
		logger.Info("built-in sample dataset loaded", zap.Int("records", added))
	}

	// Re-ingest datasets uploaded in previous runs.
	if dir := cfg.Datasets.UploadsDir; dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if !watcher.IsDatasetFile(path) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if added, err := ingestFileAs(store, path, models.CustomSource(name)); err != nil {
				logger.Warn("upload re-ingest failed", zap.String("path", path), zap.Error(err))
			} else if added > 0 {
				logger.Info("upload re-ingested", zap.String("path", path), zap.Int("records", added))
			}
		}
	}
}

func ingestFile(store *corpus.Store, path string) (int, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ingestFileAs(store, path, models.CustomSource(name))
}

func ingestFileAs(store *corpus.Store, path string, source models.Source) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	inputs, err := ingest.ParseDataset(path, f)
	if err != nil {
		return 0, err
	}
	return store.AddRecords(inputs, source), nil
}

func printUsage() {
	fmt.Println(`supportai - customer support response retrieval engine

Usage:
  supportai server [flags]          Start the HTTP server
  supportai ask [flags] <message>   Ask a support question
  supportai search [flags] <query>  Show ranked matches for a query
  supportai status [flags]          Show corpus and index status
  supportai version                 Show version
  supportai help                    Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/supportai/config.yaml)
  --debug            Enable debug logging

Ask/Search Flags:
  --config string    Config file path (used in in-process mode)
  --server string    Server URL (default: http://localhost:8000). Use --server "" to run retrieval in-process.
  --limit int        Number of search results (search only; 0 = configured top_k)
  --session string   Session id to continue (ask only)
  --output string    Output format for search/status: text or json

Examples:
  supportai server
  supportai ask "how do I reset my password"
  supportai search --limit 5 refund policy
  supportai search --server "" --output json "billing issue"
  supportai status --output json`)
}
