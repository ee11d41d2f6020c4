// Package generator calls the Groq chat-completions API to produce one
// short haiku per request.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/xerrors"
)

const (
	// DefaultAPIURL is the OpenAI-compatible Groq chat completions endpoint.
	DefaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

	// DefaultModel is the model used when the config does not override it.
	DefaultModel = "llama-3.3-70b-versatile"

	// Output stays bounded: a haiku is three short lines.
	maxTokens   = 60
	temperature = 2.0
)

// Client is a stateless request/response client for haiku generation.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
	log        *zap.Logger
}

// New creates a generator client. Empty apiURL or model fall back to the
// defaults; the API key is required at call time, not construction time.
func New(apiURL, apiKey, model string, log *zap.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Poem requests one haiku. A non-2xx status is surfaced as a
// GenerationError carrying the server-provided message when one can be
// decoded; a 2xx response with no content is also a failure.
func (c *Client) Poem(ctx context.Context) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("api key not set (see GROQ_API_KEY or kigo.yml api_key)")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		_ = json.Unmarshal(raw, &errResp)
		c.log.Warn("generation request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("message", errResp.Error.Message),
		)
		return "", xerrors.NewGenerationError(resp.StatusCode, errResp.Error.Message)
	}

	var r chatResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(r.Choices) == 0 {
		return "", xerrors.ErrEmptyPoem
	}
	text := strings.TrimSpace(r.Choices[0].Message.Content)
	if text == "" {
		return "", xerrors.ErrEmptyPoem
	}

	c.log.Debug("haiku generated", zap.Int("bytes", len(text)))
	return text, nil
}
