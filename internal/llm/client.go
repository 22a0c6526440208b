// Package llm provides the completion endpoint client used by all agents.
//
// The client speaks the OpenAI-compatible chat completions wire format: one
// blocking request per agent invocation, input = system + user messages, output =
// generated text plus a token usage count from the provider's response metadata.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Request is one completion request: role instructions plus the rendered state
// fields the agent consumes.
type Request struct {
	System     string // Role-specific instruction template (static data)
	User       string // Rendered upstream fields for this invocation
	JSONOutput bool   // Ask the provider for a JSON object response
}

// Result is one completion response.
type Result struct {
	Text       string // Generated text
	TokensUsed int    // Total tokens from usage metadata; 0 when unavailable
}

// Completer issues one model completion per call. Tests substitute a
// deterministic fake; production uses *Client.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Result, error)
}

// Config holds the completion endpoint settings.
type Config struct {
	BaseURL     string        // e.g. "https://api.openai.com/v1"
	Model       string        // e.g. "gpt-4o-mini"
	APIKey      string        // Bearer token; read from the environment, never logged
	Temperature float64       // Sampling temperature
	Timeout     time.Duration // Per-request timeout; zero means DefaultTimeout
}

// DefaultTimeout bounds one completion call. Generation for the lead developer
// node can legitimately take minutes.
const DefaultTimeout = 120 * time.Second

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	apiKey      string
	temperature float64
}

// NewClient creates a completion client from config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
	}
}

// Wire types for the chat completions endpoint.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete issues one chat completion call and returns the generated text with
// its token count. Transport failures, non-2xx responses, and empty output all
// surface as errors; a missing usage block is not an error (tokens = 0).
func (c *Client) Complete(ctx context.Context, req Request) (*Result, error) {
	body := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.JSONOutput {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	// Bound the body read; completion payloads are large but not unbounded.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("completion endpoint returned %s: %s", resp.Status, summarizeBody(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("completion endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("completion response contained no choices")
	}

	text := parsed.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("completion response was empty")
	}

	return &Result{
		Text:       text,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}

// summarizeBody truncates an error response body for inclusion in an error message.
func summarizeBody(raw []byte) string {
	const max = 256
	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		return s[:max] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
