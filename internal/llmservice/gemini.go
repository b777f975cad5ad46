package llmservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const responseTextPath = "candidates.0.content.parts.0.text"

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// GeminiClient posts to a generateContent endpoint. The key is appended to
// the endpoint as-is, so the endpoint normally ends in "?key=".
type GeminiClient struct {
	endpoint   string
	key        string
	httpClient *http.Client
}

// NewGeminiClient uses a client without a timeout when httpClient is nil.
func NewGeminiClient(endpoint, key string, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GeminiClient{endpoint: endpoint, key: key, httpClient: httpClient}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+c.key, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Int("prompt_bytes", len(prompt)).Msg("Querying Gemini")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("request failed: %d, %s", resp.StatusCode, string(body))
	}

	text := gjson.GetBytes(body, responseTextPath)
	if !text.Exists() || text.String() == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
