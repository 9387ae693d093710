package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mkossman/noted-cli/internal/domain"
	"github.com/mkossman/noted-cli/internal/ports"
)

const maxResponseBytes = 1 << 20

const defaultUnauthorizedReason = "session expired"

// Client is the authenticated JSON request wrapper around the notes API.
// Any 401 it sees clears the stored token and broadcasts the reason on the
// bus before failing the call.
type Client struct {
	Store          ports.SessionStore
	Bus            ports.Bus
	HTTPClient     *http.Client
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

var _ ports.API = (*Client)(nil)

func NewClient(store ports.SessionStore, bus ports.Bus, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		Store:  store,
		Bus:    bus,
		Logger: logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	baseURL, err := c.Store.BaseURL(ctx)
	if err != nil {
		return fmt.Errorf("load api base url: %w", err)
	}
	if baseURL == "" {
		return domain.ErrNoBaseURL
	}

	endpoint, err := buildEndpoint(baseURL, path)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.Store.Token(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.Logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(ctx, resp)
	}

	// 429 carries a typed sentinel so callers can tell a rate-limit refusal
	// apart from other failures. The server message stays in the text.
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s %s: %s: %w", method, path, decodeError(resp), domain.ErrRateLimited)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: %s", method, path, decodeError(resp))
	}

	if out == nil {
		return nil
	}
	if !isJSONResponse(resp) {
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	return nil
}

// handleUnauthorized implements the forced-logout contract: the token clear
// is global and unconditional, and every bus subscriber hears the reason.
func (c *Client) handleUnauthorized(ctx context.Context, resp *http.Response) error {
	reason := decodeErrorMessage(resp)
	if reason == "" {
		reason = defaultUnauthorizedReason
	}

	if err := c.Store.ClearToken(ctx); err != nil {
		c.Logger.Warn("clear token after 401", zap.Error(err))
	}
	if c.Bus != nil {
		c.Bus.Publish(reason)
	}

	return fmt.Errorf("%s: %w", reason, domain.ErrUnauthorized)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func decodeError(resp *http.Response) string {
	if msg := decodeErrorMessage(resp); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

func decodeErrorMessage(resp *http.Response) string {
	if !isJSONResponse(resp) {
		return ""
	}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}

func isJSONResponse(resp *http.Response) bool {
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func buildEndpoint(baseURL string, path string) (string, error) {
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/") + "/" + strings.TrimLeft(path, "/"), nil
}
