package llmservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-tldr/internal/config"
	"document-tldr/internal/models"
)

func TestGeminiClient_Generate(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Short summary."}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL+"/v1beta/models/m:generateContent?key=", "secret", srv.Client())
	text, err := c.Generate(context.Background(), "P: body")
	require.NoError(t, err)

	assert.Equal(t, "Short summary.", text)
	assert.Equal(t, "/v1beta/models/m:generateContent", gotPath)
	assert.Equal(t, "key=secret", gotQuery)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "P: body", gotBody.Contents[0].Parts[0].Text)
}

func TestGeminiClient_MissingField(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{}}]}`,
		`{"candidates":[{"content":{"parts":[{}]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
		`not json`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewGeminiClient(srv.URL+"?key=", "k", nil).Generate(context.Background(), "p")
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestGeminiClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewGeminiClient(srv.URL+"?key=", "k", nil).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "403")
}

func TestGeminiClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewGeminiClient(url+"?key=", "k", nil).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "m",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "<think>plan</think>\n A summary. "},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(&config.LLMConfig{BaseURL: srv.URL, Key: "Bearer tok", Model: "m"})
	require.NoError(t, err)

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", text)
}

func TestNewClient(t *testing.T) {
	cfg := config.Default()
	c, err := NewClient(cfg)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	cfg.Provider = models.ProviderOpenAI
	cfg.LLM = config.LLMConfig{BaseURL: "http://localhost:1", Key: "k", Model: "m"}
	c, err = NewClient(cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	cfg.Provider = "carrier-pigeon"
	_, err = NewClient(cfg)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
