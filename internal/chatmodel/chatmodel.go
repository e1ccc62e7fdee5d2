// Package chatmodel builds the tool-calling chat model the agent runs on.
// Gemini is the primary provider; any OpenAI-compatible endpoint works as
// a fallback via MODEL_PROVIDER=openai.
package chatmodel

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/osokin/tradegram/internal/config"
)

// New builds a ToolCallingChatModel for the configured provider.
func New(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	switch cfg.ModelProvider {
	case config.ProviderGemini:
		return newGemini(ctx, cfg)
	case config.ProviderOpenAI:
		return newOpenAI(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}

func newGemini(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: client,
		Model:  cfg.ModelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini chat model: %w", err)
	}
	return chatModel, nil
}

func newOpenAI(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	maxTokens := 8192
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.OpenAIBaseURL,
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.ModelName,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return chatModel, nil
}
