// Package api is the HTTP client for the query backend. Authenticated calls
// go through the transport pipeline; the login call uses a bare transport so
// a 401 there means rejected credentials, not an expired session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-consulta/credentials"
	clienterrors "github.com/jrsteele09/go-consulta/internal/errors"
	"github.com/jrsteele09/go-consulta/session"
	"github.com/jrsteele09/go-consulta/transport"
)

const defaultTimeout = 120 * time.Second

// Client is the API client for the query backend.
type Client struct {
	baseURL     string
	httpClient  *http.Client // pipeline-wrapped, for authenticated endpoints
	loginClient *http.Client // bare, for the login endpoint only
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout on both HTTP clients.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
		c.loginClient.Timeout = timeout
	}
}

// New creates an API client whose authenticated calls carry the stored
// bearer token and terminate the session on a 401.
func New(baseURL string, store credentials.Repo, terminator transport.Terminator, options ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport.New(nil, store, terminator),
		},
		loginClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

var _ session.Authenticator = (*Client)(nil)

// Login submits credentials to POST /auth/login. A 401 or an explicit
// success=false maps to ErrInvalidCredentials; connectivity problems map to
// ErrUnreachable. The session manager decides what to do with the result.
func (c *Client) Login(ctx context.Context, usuario, password string) (*session.LoginResult, error) {
	body, err := json.Marshal(LoginRequest{Usuario: usuario, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encoding login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.loginClient.Do(req)
	if err != nil {
		return nil, clienterrors.Wrapf(clienterrors.ErrUnreachable, "%v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, clienterrors.ErrInvalidCredentials
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, clienterrors.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}

	return &session.LoginResult{
		Success: loginResp.Success,
		Token:   loginResp.Token,
		User:    loginResp.User,
		Error:   loginResp.Error,
	}, nil
}

// Query submits a natural-language query to POST /query.
func (c *Client) Query(ctx context.Context, query string, includeWorkflow bool) (*QueryResponse, error) {
	var out QueryResponse
	err := c.doJSON(ctx, http.MethodPost, "/query", QueryRequest{Query: query, IncludeWorkflow: includeWorkflow}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ViewCounts calls GET /views/counts. Callers treat failures as non-fatal:
// the views listing is decoration, not data.
func (c *Client) ViewCounts(ctx context.Context) (*ViewCountsResponse, error) {
	var out ViewCountsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/views/counts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON dispatches a request through the pipeline client and decodes the
// JSON answer. Pipeline sentinels (expired session, rate limit) surface
// unchanged; other transport failures map to ErrUnreachable.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case clienterrors.Is(err, clienterrors.ErrSessionExpired):
			return clienterrors.ErrSessionExpired
		case clienterrors.Is(err, clienterrors.ErrRateLimited):
			return clienterrors.ErrRateLimited
		case ctx.Err() == context.Canceled:
			return fmt.Errorf("request canceled")
		case ctx.Err() == context.DeadlineExceeded:
			return fmt.Errorf("request timed out")
		}
		return clienterrors.Wrapf(clienterrors.ErrUnreachable, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			if errResp.Detail != "" {
				return fmt.Errorf("backend error: %s", errResp.Detail)
			}
			if errResp.Error != "" {
				return fmt.Errorf("backend error: %s", errResp.Error)
			}
		}
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}
