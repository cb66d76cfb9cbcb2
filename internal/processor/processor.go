// Package processor runs the document ingestion pipeline: extract text,
// chunk it, embed the chunks and replace the stored chunk set. It runs
// synchronously in the upload path and degrades instead of failing: a
// document may upload fine yet end up non-searchable.
package processor

import (
	"context"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"eduplatform/internal/chunker"
	"eduplatform/internal/config"
	"eduplatform/internal/db"
	"eduplatform/internal/embedding"
	"eduplatform/internal/extractor"
	"eduplatform/internal/models"
	"eduplatform/internal/vectorindex"
)

// ChunkStore persists the replace-all chunk set for a document.
type ChunkStore interface {
	ReplaceChunks(ctx context.Context, slideID int64, chunks []models.Chunk) error
}

// Indexer mirrors stored chunk vectors into the vector index.
type Indexer interface {
	ReplaceDocument(ctx context.Context, slideID int64, docs []chromem.Document) error
}

var processableTypes = map[string]bool{
	models.MediaTypePDF:  true,
	models.MediaTypeDOCX: true,
	models.MediaTypePPTX: true,
	models.MediaTypeXLSX: true,
	models.MediaTypeODS:  true,
	models.MediaTypeText: true,
	models.MediaTypeMD:   true,
}

type Processor struct {
	store   ChunkStore
	encoder embedding.Encoder
	index   Indexer // optional
	cfg     *config.RAGConfig
}

func NewProcessor(store ChunkStore, encoder embedding.Encoder, index Indexer, cfg *config.RAGConfig) *Processor {
	return &Processor{store: store, encoder: encoder, index: index, cfg: cfg}
}

// ProcessDocument extracts, chunks, embeds and stores a slide's text.
// Returns false when no usable text or chunks were produced or storage
// failed; the upload itself stays successful either way. Reprocessing is
// idempotent: each run replaces the previous chunk set atomically.
func (p *Processor) ProcessDocument(ctx context.Context, slide *db.Slide) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("title", slide.Title).Msg("Recovered while processing document")
			ok = false
		}
	}()

	log.Info().Str("title", slide.Title).Int64("slide_id", slide.ID).Str("file_type", slide.FileType).Msg("Processing document")

	if !processableTypes[slide.FileType] && !extractor.Supported(slide.FilePath) {
		log.Info().Str("file_type", slide.FileType).Msg("Skipping non-processable file")
		return true
	}

	text := extractor.Extract(slide.FilePath)
	if text == "" {
		log.Warn().Str("title", slide.Title).Msg("No text extracted")
		return false
	}

	texts := chunker.Chunk(text, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	if len(texts) == 0 {
		log.Warn().Str("title", slide.Title).Msg("No chunks created")
		return false
	}

	// nil vectors mean the chunks are stored without embeddings and the
	// document stays readable, just not semantically searchable
	vectors := p.encoder.EmbedTexts(ctx, texts)
	if vectors != nil && len(vectors) != len(texts) {
		log.Warn().Int("chunks", len(texts)).Int("vectors", len(vectors)).Msg("Embedding count mismatch, storing chunks without embeddings")
		vectors = nil
	}

	chunks := make([]models.Chunk, len(texts))
	for i, content := range texts {
		chunks[i] = models.Chunk{Content: content, ChunkIndex: i}
		if vectors != nil {
			chunks[i].Embedding = vectors[i]
		}
	}

	if err := p.store.ReplaceChunks(ctx, slide.ID, chunks); err != nil {
		log.Error().Err(err).Str("title", slide.Title).Msg("Failed to store chunks")
		return false
	}

	p.mirrorToIndex(ctx, slide, chunks)

	log.Info().Str("title", slide.Title).Int("chunks", len(chunks)).Bool("embedded", vectors != nil).Msg("Processed document")
	return true
}

// mirrorToIndex updates the chromem mirror with the embedded chunks. Index
// failures are non-fatal, the relational store is the source of truth.
func (p *Processor) mirrorToIndex(ctx context.Context, slide *db.Slide, chunks []models.Chunk) {
	if p.index == nil {
		return
	}

	var docs []chromem.Document
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:      vectorindex.ChunkID(slide.ID, chunk.ChunkIndex),
			Content: chunk.Content,
			Metadata: map[string]string{
				"slide_id": strconv.FormatInt(slide.ID, 10),
				"document": slide.Title,
			},
			Embedding: chunk.Embedding,
		})
	}

	if err := p.index.ReplaceDocument(ctx, slide.ID, docs); err != nil {
		log.Warn().Err(err).Int64("slide_id", slide.ID).Msg("Vector index update failed")
	}
}
