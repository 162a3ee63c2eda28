// Package genai is a thin client for the Google generative language API.
// It supports one-shot and SSE-streamed text generation and keeps a
// per-model rate limiter so one hot model cannot starve the others.
package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gptdeskapp/gptdesk-server/internal/ratelimit"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 60 * time.Second
	defaultRPS     = 2.0
	defaultBurst   = 4

	// DefaultChatModel answers text-only prompts.
	DefaultChatModel = "gemini-2.5-pro"
	// DefaultVisionModel answers prompts with inline images.
	DefaultVisionModel = "gemini-pro-vision"

	apiVersion = "v1beta"

	// Streamed responses can carry large chunks; give the scanner room.
	maxStreamLineSize = 1024 * 1024
)

// Config holds client settings.
type Config struct {
	// APIKey authenticates requests. Calls fail with ErrMissingAPIKey
	// when empty, so a keyless deployment degrades cleanly.
	APIKey string

	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string

	// Timeout bounds a non-streamed call end to end. Streamed calls are
	// bounded only by the caller's context.
	Timeout time.Duration

	// RPS and Burst shape the per-model client-side rate limit.
	RPS   float64
	Burst int
}

// Client calls the generation API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	limiter    *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
}

// New creates a generation client. Zero-valued Config fields fall back
// to defaults; an empty APIKey is allowed and surfaces per call.
func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		// No Timeout on the http.Client itself: it would cut streamed
		// responses short. Non-streamed calls get a context deadline.
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		limiter:    ratelimit.New(rps, burst),
		logger:     logger,
	}
}

// Close releases the client's background resources.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Generate runs a one-shot generation call and returns the joined text
// of the first candidate.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = DefaultChatModel
	}
	if err := c.limiter.Wait(ctx, model); err != nil {
		return "", fmt.Errorf("waiting for rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, model, "generateContent", "", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.UnmarshalRead(resp.Body, &out); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	return out.text(), nil
}

// GenerateStream runs a streamed generation call and invokes emit once
// per text delta, in order. It returns after the provider closes the
// stream, the context is cancelled, or emit returns an error.
//
// Providers differ on whether streamed chunks are deltas or cumulative
// text; chunks that extend what was already emitted are reduced to the
// new suffix so emit always sees deltas.
func (c *Client) GenerateStream(ctx context.Context, req GenerateRequest, emit func(text string) error) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	model := req.Model
	if model == "" {
		model = DefaultChatModel
	}
	if err := c.limiter.Wait(ctx, model); err != nil {
		return fmt.Errorf("waiting for rate limit: %w", err)
	}

	resp, err := c.post(ctx, model, "streamGenerateContent", "alt=sse", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	var sent string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLineSize)
	for scanner.Scan() {
		payload, ok := strings.CutPrefix(scanner.Text(), "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			c.logger.Warn("skipping malformed stream chunk", "model", model, "error", err)
			continue
		}

		text := chunk.text()
		if text == "" {
			continue
		}
		delta := text
		if sent != "" && strings.HasPrefix(text, sent) {
			delta = text[len(sent):]
		}
		if delta == "" {
			continue
		}
		sent += delta

		if err := emit(delta); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading generation stream: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, model, action, query string, req GenerateRequest) (*http.Response, error) {
	body := generateBody{
		Contents:         req.Contents,
		GenerationConfig: req.GenerationConfig,
		SafetySettings:   req.SafetySettings,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding generation request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:%s", c.baseURL, apiVersion, model, action)
	if query != "" {
		url += "?" + query
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling generation API: %w", err)
	}
	return resp, nil
}

// checkStatus maps a non-2xx response to a typed error, consuming the
// body. Callers must not read the body after a non-nil return.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	msg := c.errorMessage(resp.Body)
	c.logger.Warn("generation API error",
		"status", resp.StatusCode,
		"message", msg,
	)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}
}

func (c *Client) errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	var envelope errorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
