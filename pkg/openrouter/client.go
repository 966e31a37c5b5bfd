// Package openrouter is a minimal client for the OpenRouter chat completions
// API. It covers exactly the surface this program consumes: one-shot
// completions with optional output modalities and the web search plugin.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the hosted OpenRouter API endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// errBodyPreview caps how much of an unparseable error body ends up in an
// error message.
const errBodyPreview = 200

// Config holds client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	// Title is sent as the optional X-Title attribution header.
	Title   string
	Timeout time.Duration
}

// Client issues chat completion requests against an OpenRouter-compatible API.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// New creates a new client. Missing BaseURL and Timeout fall back to defaults;
// image generations routinely take longer than a minute, hence the generous
// default timeout.
func New(config *Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete sends a chat completion request and returns the first choice's message.
func (c *Client) Complete(ctx context.Context, req Request) (*ResponseMessage, error) {
	msg, _, err := c.RawComplete(ctx, req)
	return msg, err
}

// RawComplete is Complete but additionally returns the raw response body, so
// batch callers can persist the unmodified provider payload.
func (c *Client) RawComplete(ctx context.Context, req Request) (*ResponseMessage, []byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling request: %w", err)
	}

	baseURL := c.config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	url := baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if c.config.Title != "" {
		httpReq.Header.Set("X-Title", c.config.Title)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, respBody, statusError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, respBody, fmt.Errorf("parsing response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, respBody, fmt.Errorf("no choices in response")
	}

	msg := chatResp.Choices[0].Message
	return &msg, respBody, nil
}

// statusError derives a human-readable error from a non-2xx response,
// preferring the structured error message when the body parses.
func statusError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("openrouter HTTP %d: %s", status, apiErr.Error.Message)
	}
	preview := string(body)
	if len(preview) > errBodyPreview {
		preview = preview[:errBodyPreview]
	}
	return fmt.Errorf("openrouter HTTP %d: %s", status, preview)
}
