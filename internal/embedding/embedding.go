// Package embedding wraps the shared sentence-embedding model. The model is
// loaded once per process; if loading fails the embedder runs degraded for
// the process lifetime and every embed call reports "no embeddings
// available" instead of an error.
package embedding

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"eduplatform/internal/config"
)

// Encoder is the embedding surface the pipeline depends on. Tests inject
// deterministic fakes.
type Encoder interface {
	Degraded() bool
	EmbedTexts(ctx context.Context, texts []string) [][]float32
	EmbedQuery(ctx context.Context, text string) []float32
}

// Embedder is the production Encoder backed by langchaingo.
type Embedder struct {
	impl *embeddings.EmbedderImpl
}

// NewEmbedder builds the shared embedder from config. It never fails: a
// model-load error produces a degraded instance.
func NewEmbedder(cfg *config.LLMConfig) *Embedder {
	impl, err := newEmbedderImpl(cfg)
	if err != nil {
		log.Warn().Err(err).Str("model", cfg.Model).Msg("Failed to load embedding model, running degraded")
		return &Embedder{}
	}
	log.Info().Str("model", cfg.Model).Str("provider", cfg.Provider).Msg("Embedding model loaded")
	return &Embedder{impl: impl}
}

func newEmbedderImpl(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "openai":
		llm, err := openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(cfg.Key),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, err
		}
		return embeddings.NewEmbedder(llm)
	default:
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, err
		}
		return embeddings.NewEmbedder(llm)
	}
}

// Degraded reports whether the model failed to load.
func (e *Embedder) Degraded() bool { return e.impl == nil }

// EmbedTexts embeds a batch in input order, one vector per input. Degraded
// mode and per-call failures both return nil; callers fall back to
// non-ranked behavior.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) [][]float32 {
	if e.impl == nil || len(texts) == 0 {
		return nil
	}
	vectors, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		log.Warn().Err(err).Int("texts", len(texts)).Msg("Embedding call failed")
		return nil
	}
	return vectors
}

// EmbedQuery embeds a single text, nil on any failure.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) []float32 {
	if e.impl == nil {
		return nil
	}
	vector, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("Query embedding failed")
		return nil
	}
	return vector
}
