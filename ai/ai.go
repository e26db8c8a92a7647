// Package ai is a minimal client for the hosted Cohere v2 API, covering
// the two endpoints the platform uses: chat completion and embedding.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/learnhub/learnhub/config"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("ai: provider not configured")

const (
	defaultBaseURL = "https://api.cohere.com"
	defaultTimeout = 30 * time.Second
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the model provider over HTTP.
type Client struct {
	baseURL     string
	apiKey      string
	chatModel   string
	embedModel  string
	temperature float64
	maxTokens   int
	hc          *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// NewClient creates a provider client from configuration.
func NewClient(cfg *config.AI, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		temperature: 0.3,
		maxTokens:   500,
		hc:          &http.Client{Timeout: defaultTimeout},
	}
	if cfg != nil {
		if cfg.BaseURL != "" {
			c.baseURL = cfg.BaseURL
		}
		c.apiKey = cfg.APIKey
		c.chatModel = cfg.ChatModel
		c.embedModel = cfg.EmbedModel
		if cfg.Temperature > 0 {
			c.temperature = cfg.Temperature
		}
		if cfg.MaxTokens > 0 {
			c.maxTokens = cfg.MaxTokens
		}
		if cfg.Timeout > 0 {
			c.hc.Timeout = cfg.Timeout
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// ChatCompletion sends the conversation and returns the assistant text.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	var out chatResponse
	err := c.post(ctx, "/v2/chat", chatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}, &out)
	if err != nil {
		return "", err
	}

	for _, part := range out.Message.Content {
		if part.Type == "text" && part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("ai: empty chat response")
}

type embedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type embedResponse struct {
	Embeddings struct {
		Float [][]float64 `json:"float"`
	} `json:"embeddings"`
}

// Embed returns one embedding vector per input text. inputType is
// "search_document" for ingestion and "search_query" for retrieval.
func (c *Client) Embed(ctx context.Context, texts []string, inputType string) ([][]float64, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	if len(texts) == 0 {
		return nil, nil
	}

	var out embedResponse
	err := c.post(ctx, "/v2/embed", embedRequest{
		Model:          c.embedModel,
		Texts:          texts,
		InputType:      inputType,
		EmbeddingTypes: []string{"float"},
	}, &out)
	if err != nil {
		return nil, err
	}

	if len(out.Embeddings.Float) != len(texts) {
		return nil, fmt.Errorf("ai: expected %d embeddings, got %d", len(texts), len(out.Embeddings.Float))
	}
	return out.Embeddings.Float, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ai: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ai: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("ai: request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("ai: failed to read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("ai: provider returned %d: %s", res.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("ai: failed to decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
