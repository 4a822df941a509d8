package api_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud_drive_agent/internal/pkg/http_client"
	"cloud_drive_agent/internal/pkg/metrics"
	"cloud_drive_agent/internal/pkg/session/domain"
)

// Client issues authenticated requests against the backend auth API.
// Non-2xx responses surface as errors carrying the server's message when
// one is present; callers never see a raw status code unless the backend
// sent nothing better.
type Client struct {
	baseURL string
	tokens  TokenStore
	client  *http_client.LoggedClient
}

// NewClient builds a client for the given API base URL, e.g.
// http://localhost:4000/api.
func NewClient(baseURL, logServerURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		tokens:  tokens,
		client:  http_client.NewLoggedClient(logServerURL),
	}
}

// request performs an API call and decodes the JSON response into out.
// The bearer token is attached when the store has one.
func (c *Client) request(method, endpoint string, body interface{}, out interface{}) error {
	url := c.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.CountAPIRequest(method, endpoint, 0)
		return fmt.Errorf("failed to reach backend: %v", err)
	}
	defer resp.Body.Close()

	metrics.CountAPIRequest(method, endpoint, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s", extractErrorMessage(respBody, resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %v", err)
		}
	}

	return nil
}

// extractErrorMessage prefers the server-supplied error message and falls
// back to a generic status line, matching what the web client shows.
func extractErrorMessage(body []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// Login authenticates with email/password.
func (c *Client) Login(email, password string) (*AuthResponse, error) {
	var raw wireAuthResponse
	err := c.request(http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &raw)
	if err != nil {
		return nil, err
	}
	if !raw.Success {
		if raw.Error != "" {
			return nil, fmt.Errorf("%s", raw.Error)
		}
		return nil, fmt.Errorf("login failed")
	}
	return &AuthResponse{
		Success: true,
		Message: raw.Message,
		Token:   raw.Token,
		User:    raw.User.toDomain(),
	}, nil
}

// Register creates an account. The response includes the created user.
func (c *Client) Register(email, password string, extra *RegisterExtra) (*AuthResponse, error) {
	body := RegisterRequest{Email: email, Password: password}
	if extra != nil {
		body.FirstName = extra.FirstName
		body.LastName = extra.LastName
	}

	var raw wireAuthResponse
	err := c.request(http.MethodPost, "/auth/register", body, &raw)
	if err != nil {
		return nil, err
	}
	if !raw.Success {
		if raw.Error != "" {
			return nil, fmt.Errorf("%s", raw.Error)
		}
		return nil, fmt.Errorf("registration failed")
	}
	return &AuthResponse{
		Success: true,
		Message: raw.Message,
		Token:   raw.Token,
		User:    raw.User.toDomain(),
	}, nil
}

// GetCurrentUser resolves the user behind the persisted token.
func (c *Client) GetCurrentUser() (*domain.User, error) {
	var raw wireMeResponse
	if err := c.request(http.MethodGet, "/auth/me", nil, &raw); err != nil {
		return nil, err
	}
	if !raw.Success || raw.User == nil {
		return nil, fmt.Errorf("failed to resolve current user")
	}
	return raw.User.toDomain(), nil
}

// IsAuthenticated is a synchronous token-presence check; it does not
// validate the token against the server.
func (c *Client) IsAuthenticated() bool {
	return c.tokens.IsAuthenticated()
}

// GoogleLoginURL is the backend's OAuth entry point. The caller performs
// a full navigation there; the outcome comes back later as a redirect
// carrying a token query parameter.
func (c *Client) GoogleLoginURL() string {
	base := strings.TrimSuffix(c.baseURL, "/api")
	return base + "/api/auth/google"
}
