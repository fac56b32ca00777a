// Package engine implements the retrieval engine: small-talk shortcuts,
// scoring over the corpus, confidence bucketing, and reply composition.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishaandev07/WebDevDynamics/internal/config"
	"github.com/ishaandev07/WebDevDynamics/internal/corpus"
	"github.com/ishaandev07/WebDevDynamics/internal/embedding"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/internal/scoring"
	"github.com/ishaandev07/WebDevDynamics/internal/vector"
)

// ErrEmptyQuery is returned by Search when the query has no usable tokens.
var ErrEmptyQuery = errors.New("query is empty")

// snapshot is one published (scorer, corpus state) pair. Queries read whichever
// snapshot is current when they start; Rebuild publishes a replacement
// atomically, so a request never sees a half-updated pair.
type snapshot struct {
	scorer     scoring.Scorer
	version    uint64
	corpusSize int
}

type smallTalkEntry struct {
	phrase string
	reply  string
}

// Engine answers support queries from the corpus. Reads are lock-free against
// the current snapshot; Rebuild is the only writer and builds the replacement
// off to the side, so query serving continues on the old snapshot until the
// new one is ready.
type Engine struct {
	store     *corpus.Store
	retrieval config.RetrievalConfig
	composer  *Composer
	logger    *zap.Logger

	embedder     embedding.Embedder           // nil for the lexical strategy
	newIndex     func() (vector.Index, error) // fresh index per rebuild
	currentIndex vector.Index                 // index of the published snapshot, for Save
	retired      []vector.Index               // superseded indexes, released at Close

	smallTalk []smallTalkEntry

	current   atomic.Pointer[snapshot]
	rebuildMu sync.Mutex
}

// Options wires the engine's collaborators. Embedder and NewIndex are required
// only for the vector strategy.
type Options struct {
	Store     *corpus.Store
	Retrieval config.RetrievalConfig
	Templates config.TemplateConfig
	Embedder  embedding.Embedder
	NewIndex  func() (vector.Index, error)
	Logger    *zap.Logger
}

// New constructs an engine and builds its first snapshot. Configuration
// problems (including a vector strategy without an embedder) fail here, never
// per request.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("engine requires a corpus store")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Retrieval.Strategy == "vector" {
		if opts.Embedder == nil {
			return nil, fmt.Errorf("vector strategy requires an embedder")
		}
		if opts.NewIndex == nil {
			return nil, fmt.Errorf("vector strategy requires an index constructor")
		}
	}

	// Longest phrases first so "good morning" wins over a hypothetical "good";
	// equal lengths order lexically to keep matching deterministic.
	smallTalk := make([]smallTalkEntry, 0, len(opts.Retrieval.SmallTalk))
	for phrase, reply := range opts.Retrieval.SmallTalk {
		norm := corpus.Normalize(phrase)
		if norm == "" {
			continue
		}
		smallTalk = append(smallTalk, smallTalkEntry{phrase: norm, reply: reply})
	}
	sort.Slice(smallTalk, func(i, j int) bool {
		if len(smallTalk[i].phrase) != len(smallTalk[j].phrase) {
			return len(smallTalk[i].phrase) > len(smallTalk[j].phrase)
		}
		return smallTalk[i].phrase < smallTalk[j].phrase
	})

	e := &Engine{
		store:     opts.Store,
		retrieval: opts.Retrieval,
		composer:  NewComposer(opts.Templates),
		logger:    opts.Logger,
		embedder:  opts.Embedder,
		newIndex:  opts.NewIndex,
		smallTalk: smallTalk,
	}
	if err := e.Rebuild(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Rebuild takes a fresh corpus snapshot, builds a scorer for it, and publishes
// the pair. For the vector strategy this embeds the whole corpus into a new
// index; in-flight queries keep using the previous snapshot until publication.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	var (
		next *snapshot
		idx  vector.Index
	)
	switch e.retrieval.Strategy {
	case "vector":
		var err error
		idx, err = e.newIndex()
		if err != nil {
			return fmt.Errorf("create index: %w", err)
		}
		scorer, err := scoring.BuildVectorScorer(ctx, e.store, e.embedder, idx, e.retrieval.MinSimilarity)
		if err != nil {
			_ = idx.Close()
			return fmt.Errorf("build vector scorer: %w", err)
		}
		next = &snapshot{scorer: scorer, version: scorer.Version(), corpusSize: e.store.Len()}
	default:
		records, version := e.store.Snapshot()
		scorer := scoring.NewLexicalScorer(records, scoring.LexicalOptions{
			MinSimilarity:  e.retrieval.MinSimilarity,
			SubstringBoost: e.retrieval.SubstringBoost,
			KeywordBoost:   e.retrieval.KeywordBoost,
			BoostKeywords:  e.retrieval.BoostKeywords,
		})
		next = &snapshot{scorer: scorer, version: version, corpusSize: len(records)}
	}

	e.current.Store(next)
	// A query that loaded the previous snapshot may still be inside the old
	// index's Search. Superseded indexes are kept open until engine Close.
	if old := e.currentIndex; old != nil && old != idx {
		e.retired = append(e.retired, old)
	}
	e.currentIndex = idx
	e.logger.Info("retrieval snapshot published",
		zap.String("strategy", next.scorer.Name()),
		zap.Uint64("corpus_version", next.version),
		zap.Int("corpus_size", next.corpusSize))
	return nil
}

// Answer maps a free-text query to a composed reply plus the ranked candidates
// behind it. Scorer failures degrade to the fallback reply; they are logged
// here and never surface to the caller.
func (e *Engine) Answer(ctx context.Context, query, sessionID string) models.Answer {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	norm := corpus.Normalize(query)
	for _, st := range e.smallTalk {
		if strings.Contains(norm, st.phrase) {
			return models.Answer{
				Reply:     st.reply,
				SessionID: sessionID,
				Bucket:    models.BucketSmallTalk,
				Results:   []models.MatchResult{},
			}
		}
	}

	snap := e.current.Load()
	results, err := snap.scorer.Score(ctx, query, e.retrieval.TopK)
	if err != nil {
		e.logger.Error("scorer failed, degrading to fallback",
			zap.String("strategy", snap.scorer.Name()),
			zap.Error(err))
		results = nil
	}
	// Results is always a slice on the wire, never null.
	if results == nil {
		results = []models.MatchResult{}
	}
	bucket := e.bucket(results)
	return models.Answer{
		Reply:     e.composer.Compose(bucket, results),
		SessionID: sessionID,
		Bucket:    bucket,
		Results:   results,
	}
}

// Search exposes raw ranked candidates without reply composition.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]models.MatchResult, error) {
	if corpus.Normalize(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = e.retrieval.TopK
	}
	snap := e.current.Load()
	return snap.scorer.Score(ctx, query, topK)
}

// Strategy reports the active scorer name.
func (e *Engine) Strategy() string {
	return e.current.Load().scorer.Name()
}

// CorpusVersion reports the corpus version of the published snapshot.
func (e *Engine) CorpusVersion() uint64 {
	return e.current.Load().version
}

// SaveIndex persists the current vector index to path. It is a no-op for the
// lexical strategy or an empty path.
func (e *Engine) SaveIndex(path string) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	if e.currentIndex == nil || path == "" {
		return nil
	}
	return e.currentIndex.Save(path)
}

// Close releases the current vector index and every index retired by Rebuild.
func (e *Engine) Close() error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	for _, idx := range e.retired {
		_ = idx.Close()
	}
	e.retired = nil
	if e.currentIndex != nil {
		err := e.currentIndex.Close()
		e.currentIndex = nil
		return err
	}
	return nil
}

func (e *Engine) bucket(results []models.MatchResult) models.Bucket {
	if len(results) == 0 {
		return models.BucketNone
	}
	top := results[0].Similarity
	switch {
	case top >= e.retrieval.HighConfidence:
		return models.BucketHigh
	case top >= e.retrieval.MediumConfidence:
		return models.BucketMedium
	default:
		return models.BucketLow
	}
}
