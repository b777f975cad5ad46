// Package summarizer turns a document body into the text of a summary block.
//
// Failures never surface as errors. They come back as a Result whose Text is
// a fixed placeholder and whose Status says what went wrong, so a host can
// decide between writing the placeholder and telling the user.
package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"document-tldr/internal/llmservice"
	"document-tldr/internal/models"
)

type Status int

const (
	StatusOK Status = iota
	StatusNoResponse
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoResponse:
		return "no_response"
	case StatusTransportError:
		return "transport_error"
	}
	return "unknown"
}

type Result struct {
	Text   string
	Status Status
	// Err is the swallowed cause when Status is not StatusOK.
	Err error
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Block is the text spliced into the document.
func (r Result) Block() string {
	return Block(r.Text)
}

// Block prefixes text with the level-6 summary heading.
func Block(text string) string {
	return models.BlockHeader + text
}

type Summarizer struct {
	client llmservice.Client
	prompt string
}

func New(client llmservice.Client, prompt string) *Summarizer {
	return &Summarizer{client: client, prompt: prompt}
}

// Summarize makes exactly one model call with the prompt prefix followed by body.
func (s *Summarizer) Summarize(ctx context.Context, body string) Result {
	text, err := s.client.Generate(ctx, s.prompt+body)
	switch {
	case err == nil:
		return Result{Text: text, Status: StatusOK}
	case errors.Is(err, llmservice.ErrEmptyResponse):
		log.Warn().Err(err).Str("client", fmt.Sprintf("%T", s.client)).Msg("Model returned no usable text")
		return Result{Text: models.NoResponseText, Status: StatusNoResponse, Err: err}
	default:
		log.Error().Err(err).Str("client", fmt.Sprintf("%T", s.client)).Msg("Model request failed")
		return Result{Text: models.TransportErrorText, Status: StatusTransportError, Err: err}
	}
}
