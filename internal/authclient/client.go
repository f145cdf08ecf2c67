package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/auth-shell/internal/domain"
	"github.com/ErlanBelekov/auth-shell/internal/metrics"
)

// maxBodyBytes caps how much of a response we are willing to decode.
const maxBodyBytes = 1 << 20

// Client talks to the remote auth service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{} // no timeout: requests are bounded by the caller's context only
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       string   `json:"_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	IsActive bool     `json:"isActive"`
	Roles    []string `json:"roles"`
}

// authResponse is the body of both login and check-token.
type authResponse struct {
	User  *userPayload `json:"user"`
	Token string       `json:"token"`
}

// errorResponse accepts both {"message":"..."} and {"message":["...", "..."]}.
type errorResponse struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// Login exchanges credentials for a user and a bearer token.
// A refusal by the service comes back as *domain.LoginError.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "login")
}

// CheckToken asks the service whether token is still valid. On success the
// service returns the user and a refreshed token. An empty token fails with
// domain.ErrTokenMissing without a request; a refusal wraps
// domain.ErrTokenRejected around the service's *domain.LoginError.
func (c *Client) CheckToken(ctx context.Context, token string) (*domain.User, string, error) {
	if token == "" {
		return nil, "", domain.ErrTokenMissing
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/check-token", nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	user, fresh, err := c.do(req, "check_token")
	var loginErr *domain.LoginError
	if errors.As(err, &loginErr) {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrTokenRejected, err)
	}
	return user, fresh, err
}

// Ping reports whether the service answers HTTP at all. Any status code counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(req *http.Request, operation string) (*domain.User, string, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.AuthRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "rejected"
		return nil, "", &domain.LoginError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, raw),
		}
	}

	var out authResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}
	if out.User == nil || out.Token == "" {
		return nil, "", errors.New("decode response: missing user or token")
	}

	outcome = "ok"
	return &domain.User{
		ID:       out.User.ID,
		Email:    out.User.Email,
		Name:     out.User.Name,
		IsActive: out.User.IsActive,
		Roles:    out.User.Roles,
	}, out.Token, nil
}

func errorMessage(status int, raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && len(e.Message) > 0 {
		var single string
		if err := json.Unmarshal(e.Message, &single); err == nil && single != "" {
			return single
		}
		var list []string
		if err := json.Unmarshal(e.Message, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}
	if e.Error != "" {
		return e.Error
	}
	return http.StatusText(status)
}
