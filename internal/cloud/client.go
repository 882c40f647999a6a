// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/rsii/internal/logging"
)

// Configuration constants for the chat completions API.
const (
	// DefaultBaseURL is used when the config does not name an endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	chatCompletionsPath = "/chat/completions"
)

// Error variables for dispatch failures. Every failure returned by Dispatch is
// a *DispatchError; these sentinels classify the cause.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrAuthFailed indicates the API key was rejected (HTTP 401/403).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrInsufficientCredits indicates the account has insufficient credits.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrMalformedResponse indicates the body could not be used as a chat response.
	ErrMalformedResponse = errors.New("malformed response")
)

// DispatchError is the single error kind returned by Dispatch.
type DispatchError struct {
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dispatch failed (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// APIError carries the provider's own error payload for statuses that do not
// map to a sentinel.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// apiErrorResponse represents an error response from the API.
type apiErrorResponse struct {
	Error struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// Client sends chat completion requests to an OpenAI-compatible endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// NewClient creates a client for the given API key.
//
// If the API key is empty the client is still created, but Dispatch fails
// with ErrNotConfigured before any network I/O.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSHandshakeTimeout: 10 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
			// No timeout here; the caller's context bounds the request.
		},
		userAgent: "rsii",
		logger:    zap.NewNop(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	if url = strings.TrimSpace(url); url != "" {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// WithLogger sets the logger. A nil logger disables logging.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logging.OrNop(logger)
	return c
}

// BaseURL returns the configured endpoint root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsConfigured returns true if the client has an API key configured.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a masked version of the API key for display.
// SECURITY: Never exposes API key fragments - use fingerprint instead.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(c.apiKey), c.KeyFingerprint())
}

// KeyFingerprint returns the first 4 bytes of the key's SHA-256 as hex.
func (c *Client) KeyFingerprint() string {
	return Fingerprint(c.apiKey)
}

// Fingerprint hashes a secret into a short identifier safe to log.
func Fingerprint(secret string) string {
	if secret == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// DISPATCH
// =============================================================================

// Dispatch performs exactly one chat completion request. There are no retries.
//
// Any failure (transport, non-2xx status, oversize or undecodable body, or a
// response without choices) is returned as a *DispatchError. Cancelling ctx
// aborts the request.
func (c *Client) Dispatch(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if !c.IsConfigured() {
		return nil, &DispatchError{Err: ErrNotConfigured}
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, &DispatchError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &DispatchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	c.setHeaders(httpReq)

	// CLOUD: Secure logging - no headers, no body.
	c.logger.Debug("api request",
		zap.String("method", httpReq.Method),
		zap.String("path", httpReq.URL.Path),
		zap.String("model", req.Model),
		zap.String("key_fingerprint", c.KeyFingerprint()),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)

	// SECURITY: Clear Authorization header immediately after request to prevent logging
	httpReq.Header.Del("Authorization")

	if err != nil {
		c.logger.Debug("api request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, &DispatchError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.Debug("api response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	body, err := readResponse(resp)
	if err != nil {
		return nil, &DispatchError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DispatchError{StatusCode: resp.StatusCode, Err: handleErrorResponse(resp.StatusCode, body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &DispatchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &DispatchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: no choices", ErrMalformedResponse)}
	}

	return &chatResp, nil
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	// Read one byte past the limit so an exact-size body is still accepted.
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: exceeded maximum size of %d bytes", ErrMalformedResponse, MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to appropriate Go errors.
func handleErrorResponse(statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))
	code := ""

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
		code = strings.Trim(string(apiErr.Error.Code), `"`)
		if code == "null" {
			code = ""
		}
	}

	var sentinel error
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrAuthFailed
	case http.StatusPaymentRequired:
		sentinel = ErrInsufficientCredits
	case http.StatusNotFound:
		sentinel = ErrModelNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	default:
		return &APIError{Code: code, Message: message, Status: statusCode}
	}

	if message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}
