package llmservice

import (
	"context"
	"errors"
	"fmt"

	"document-tldr/internal/config"
	"document-tldr/internal/models"
)

var (
	// ErrEmptyResponse means the model answered but the reply carried no text.
	ErrEmptyResponse   = errors.New("no text in model response")
	ErrUnknownProvider = errors.New("unknown provider")
)

// Client sends one prompt to a model and returns its text reply.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewClient builds the client for the configured provider.
func NewClient(cfg *config.Config) (Client, error) {
	switch cfg.Provider {
	case "", models.ProviderGemini:
		return NewGeminiClient(cfg.Endpoint, cfg.Key, nil), nil
	case models.ProviderOpenAI:
		return NewOpenAIClient(&cfg.LLM)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
