package rag

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"eduplatform/internal/embedding"
)

// RankContext orders candidates by cosine similarity to the query and
// returns at most topK of them, most relevant first, dropping any whose
// similarity is at or below threshold. Ties keep input order.
//
// Fallback is explicit: with no candidates the result is empty; with a
// degraded embedder, or on any embedding or similarity failure, the first
// topK candidates come back unranked rather than an error.
func RankContext(ctx context.Context, encoder embedding.Encoder, query string, candidates []string, topK int, threshold float64) []string {
	if len(candidates) == 0 {
		return nil
	}
	if topK <= 0 {
		return nil
	}

	if encoder.Degraded() {
		log.Debug().Msg("Embedder degraded, returning unranked context")
		return head(candidates, topK)
	}

	queryVector := encoder.EmbedQuery(ctx, query)
	if len(queryVector) == 0 {
		log.Warn().Msg("No query embedding, returning unranked context")
		return head(candidates, topK)
	}

	candidateVectors := encoder.EmbedTexts(ctx, candidates)
	if len(candidateVectors) != len(candidates) {
		log.Warn().
			Int("candidates", len(candidates)).
			Int("vectors", len(candidateVectors)).
			Msg("No candidate embeddings, returning unranked context")
		return head(candidates, topK)
	}

	similarities := make([]float64, len(candidates))
	for i, vector := range candidateVectors {
		similarities[i] = cosineSimilarity(queryVector, vector)
	}

	indices := make([]int, len(candidates))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return similarities[indices[a]] > similarities[indices[b]]
	})

	if topK > len(indices) {
		topK = len(indices)
	}
	relevant := make([]string, 0, topK)
	for _, idx := range indices[:topK] {
		if similarities[idx] <= threshold {
			continue
		}
		relevant = append(relevant, candidates[idx])
	}
	log.Debug().Int("relevant", len(relevant)).Float64("threshold", threshold).Msg("Ranked context")
	return relevant
}

func head(candidates []string, topK int) []string {
	if topK > len(candidates) {
		topK = len(candidates)
	}
	out := make([]string, topK)
	copy(out, candidates[:topK])
	return out
}

// cosineSimilarity is dot product over the product of L2 norms. Mismatched
// or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
