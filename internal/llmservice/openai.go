package llmservice

import (
	"context"
	"regexp"
	"strings"

	"document-tldr/internal/config"
	"document-tldr/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var thinkTag = regexp.MustCompile(models.ThinkTag)

// OpenAIClient talks to any OpenAI-compatible chat endpoint.
type OpenAIClient struct {
	llm *openai.LLM
}

func NewOpenAIClient(llmConfig *config.LLMConfig) (*OpenAIClient, error) {
	log.Debug().Str("base_url", llmConfig.BaseURL).Str("model", llmConfig.Model).Msg("Creating OpenAI client")
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	}
	if llmConfig.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{llm: llm}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(thinkTag.ReplaceAllString(resp.Choices[0].Content, ""))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
