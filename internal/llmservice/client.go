package llmservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"eduplatform/internal/config"
)

// GenerateContent sends one (system prompt, user message) exchange to the
// configured OpenAI-compatible endpoint and returns the reply. Retries and
// key-presence checks are the caller's job.
func GenerateContent(ctx context.Context, llmConfig *config.LLMConfig, systemPrompt, userMessage string) (string, error) {
	log.Debug().Str("model", llmConfig.Model).Msg("Generating content")
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: systemPrompt}},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: userMessage}},
		},
	}

	res, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", nil
	}
	return res.Choices[0].Content, nil
}
