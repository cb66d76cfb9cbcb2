// Package rag holds the query-time retrieval core: gathering candidate
// context, ranking it against the question, and composing the grounded
// prompt for the generation service.
package rag

import (
	"context"

	"eduplatform/internal/config"
	"eduplatform/internal/db"
	"eduplatform/internal/embedding"
	"eduplatform/internal/llmservice"
)

type Service struct {
	store   Store
	encoder embedding.Encoder
	cfg     *config.Config
}

func NewService(store Store, encoder embedding.Encoder, cfg *config.Config) *Service {
	return &Service{store: store, encoder: encoder, cfg: cfg}
}

// BuildGroundedPrompt gathers the user's visible context, ranks it against
// the query and composes the system prompt. Pure read, no mutation.
func (s *Service) BuildGroundedPrompt(ctx context.Context, user *db.User, query string) (string, error) {
	userContext, err := GatherContext(ctx, s.store, user)
	if err != nil {
		return "", err
	}

	items := userContext.Items()
	candidates := make([]string, len(items))
	for i, item := range items {
		candidates[i] = item.Labeled()
	}

	relevant := RankContext(ctx, s.encoder, query, candidates, s.cfg.RAG.TopK, s.cfg.RAG.SimilarityThreshold)
	return CreateSystemPrompt(user.Username, relevant), nil
}

// Chat answers a user message grounded on their course materials and
// persists the exchange.
func (s *Service) Chat(ctx context.Context, user *db.User, message string) (*db.ChatMessage, error) {
	prompt, err := s.BuildGroundedPrompt(ctx, user, message)
	if err != nil {
		return nil, err
	}

	response, err := llmservice.GenerateContent(ctx, &s.cfg.ChatLLM, prompt, message)
	if err != nil {
		return nil, err
	}

	chatMessage := &db.ChatMessage{
		UserID:   user.ID,
		Message:  message,
		Response: response,
	}
	if err := s.store.SaveChatMessage(ctx, chatMessage); err != nil {
		return nil, err
	}
	return chatMessage, nil
}

// History returns the user's recent exchanges, oldest first.
func (s *Service) History(ctx context.Context, user *db.User, limit int) ([]db.ChatMessage, error) {
	return s.store.ChatHistory(ctx, user.ID, limit)
}

func (s *Service) ClearHistory(ctx context.Context, user *db.User) error {
	return s.store.ClearChatHistory(ctx, user.ID)
}
