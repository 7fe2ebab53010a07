package service

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

	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
)

// TokenSource yields the bearer credential for backend requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	BearerToken() (string, error)
}

// APIError is a backend failure: a non-2xx status or a body with ok=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// BackendClient talks to the assistant backend REST API.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewBackendClient(cfg *config.API) *BackendClient {
	return &BackendClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		tokens:     cfg,
	}
}

// NewBackendClientWith builds a client around an existing http.Client.
func NewBackendClientWith(baseURL string, httpClient *http.Client, tokens TokenSource) *BackendClient {
	return &BackendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// Configured reports whether a base URL is set. Every call fails with
// domain.ErrAPIBaseNotConfigured otherwise.
func (c *BackendClient) Configured() bool {
	return c.baseURL != ""
}

func (c *BackendClient) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	if !c.Configured() {
		return nil, domain.ErrAPIBaseNotConfigured
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)
	return req, nil
}

// authorize attaches the bearer token. A failing token source degrades to an
// unauthenticated request instead of blocking the call.
func (c *BackendClient) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.BearerToken()
	if err != nil {
		slog.Warn("failed to fetch bearer token", "error", err)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do sends the request and returns the body of a 2xx response.
func (c *BackendClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		var data struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &data) == nil && data.Error != "" {
			msg = data.Error
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}

// doJSON performs a JSON round trip. A 2xx body carrying ok=false is turned
// into an APIError using fallback when the body has no error message.
func (c *BackendClient) doJSON(ctx context.Context, method, path string, query url.Values, in, out any, fallback string) error {
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	body, err := c.do(req)
	if err != nil {
		return err
	}

	var status struct {
		OK    *bool  `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if status.OK != nil && !*status.OK {
		msg := status.Error
		if msg == "" {
			msg = fallback
		}
		return &APIError{Status: http.StatusOK, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// ErrorMessage renders err the way the console shows it to an operator.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
