package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/newsdesk/internal/config"
	"github.com/phrazzld/newsdesk/internal/generation"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
)

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// ProxyClient implements generation.Client against the chat gateway.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ generation.Client = (*ProxyClient)(nil)

// ProxyOption customizes a ProxyClient.
type ProxyOption func(*ProxyClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ProxyOption {
	return func(c *ProxyClient) { c.httpClient = hc }
}

// NewProxyClient creates a client for the gateway at cfg.BaseURL.
func NewProxyClient(cfg config.LLMConfig, log *slog.Logger, opts ...ProxyOption) (*ProxyClient, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidConfig, ErrMissingBaseURL)
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", generation.ErrInvalidConfig, err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	c := &ProxyClient{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.With("component", "generation_proxy"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type healthResponse struct {
	Ready          *bool `json:"ready"`
	ClientReady    *bool `json:"client_ready"`
	ActiveSessions int   `json:"active_sessions"`
}

// Health implements generation.Client. The gateway reports readiness as
// "ready"; older gateways use "client_ready".
func (c *ProxyClient) Health(ctx context.Context) (*generation.Health, error) {
	var body healthResponse
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, &body); err != nil {
		return nil, err
	}

	health := &generation.Health{ActiveSessions: body.ActiveSessions}
	switch {
	case body.Ready != nil:
		health.Ready = *body.Ready
	case body.ClientReady != nil:
		health.Ready = *body.ClientReady
	}
	return health, nil
}

type profilesResponse struct {
	Merged []generation.Profile `json:"merged"`
}

// ListProfiles implements generation.Client.
func (c *ProxyClient) ListProfiles(ctx context.Context) ([]generation.Profile, error) {
	var body profilesResponse
	if err := c.do(ctx, "profiles", http.MethodGet, "/profiles", nil, &body); err != nil {
		return nil, err
	}
	if body.Merged == nil {
		return nil, fmt.Errorf("%w: profiles response has no merged list", generation.ErrInvalidResponse)
	}
	return body.Merged, nil
}

type chatResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// Chat implements generation.Client.
func (c *ProxyClient) Chat(ctx context.Context, req generation.ChatRequest) (string, error) {
	if req.Message == "" {
		return "", generation.ErrEmptyMessage
	}

	var body chatResponse
	if err := c.do(ctx, "chat", http.MethodPost, "/chat", req, &body); err != nil {
		return "", err
	}

	text := body.Response
	if text == "" {
		text = body.Message
	}
	if text == "" {
		return "", fmt.Errorf("%w: chat response has no text", generation.ErrInvalidResponse)
	}
	return text, nil
}

func (c *ProxyClient) do(ctx context.Context, op, method, path string, in, out any) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WarnContext(ctx, "generation request failed", "op", op, "error", err)
		return generation.NewUpstreamError(op, 0, "", err)
	}
	defer resp.Body.Close()

	log.DebugContext(ctx, "generation request completed",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return generation.NewUpstreamError(op, resp.StatusCode, strings.TrimSpace(string(payload)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", generation.ErrInvalidResponse, op, err)
	}
	return nil
}
