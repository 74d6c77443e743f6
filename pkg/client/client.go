package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aribellam/lumina/pkg/domain"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// LoginRequest is the payload for authenticating an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the normalized outcome of a successful login or register:
// the bearer token plus the user it authenticates.
type AuthResult struct {
	Token string
	User  domain.User
}

// Client is the Lumina API client. It is pure transport: it never holds
// session state beyond the bearer token it is told to send. The token is
// mutated from the UI loop while request goroutines read it, so access
// goes through mu.
type Client struct {
	baseURL    string
	mu         sync.RWMutex
	token      string
	httpClient *http.Client
}

// New creates a new API client. An empty token means requests go out
// without an Authorization header.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token; subsequent requests are anonymous.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Token returns the bearer token currently attached to requests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates a new account and returns the issued token and user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var resp struct {
		AccessToken string      `json:"access_token"`
		User        domain.User `json:"user"`
	}
	if err := c.post(ctx, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &AuthResult{Token: resp.AccessToken, User: resp.User}, nil
}

// Login authenticates an existing account. The login endpoint returns a
// flat payload; it is folded back into the normal token + user pair here.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var resp struct {
		Token            string `json:"token"`
		UserID           string `json:"user_id"`
		Email            string `json:"email"`
		Username         string `json:"username"`
		SubscriptionTier string `json:"subscription_tier"`
		FirstName        string `json:"first_name"`
		LastName         string `json:"last_name"`
		EmailVerified    bool   `json:"email_verified"`
	}
	if err := c.post(ctx, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &AuthResult{
		Token: resp.Token,
		User: domain.User{
			ID:               resp.UserID,
			Email:            resp.Email,
			Username:         resp.Username,
			SubscriptionTier: resp.SubscriptionTier,
			FirstName:        resp.FirstName,
			LastName:         resp.LastName,
			IsActive:         true,
			EmailVerified:    resp.EmailVerified,
		},
	}, nil
}

// ForgotPassword requests a password reset link for the given email.
// The returned message is the server's response verbatim; whether it
// discloses account existence is server policy, not ours.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/v1/auth/forgot-password", map[string]string{"email": email}, &resp); err != nil {
		return "", fmt.Errorf("client.ForgotPassword: %w", err)
	}
	return resp.Message, nil
}

// ResetPassword redeems a reset token for a new password. The token's
// validity window is owned by the server; it is only forwarded here.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "new_password": newPassword}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/api/v1/auth/reset-password", body, &resp); err != nil {
		return "", fmt.Errorf("client.ResetPassword: %w", err)
	}
	return resp.Message, nil
}

// GetProfile returns the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/v1/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &u, nil
}

// GetSubscription returns the account's plan and usage snapshot.
func (c *Client) GetSubscription(ctx context.Context) (*domain.Subscription, error) {
	var s domain.Subscription
	if err := c.get(ctx, "/api/v1/subscription", &s); err != nil {
		return nil, fmt.Errorf("client.GetSubscription: %w", err)
	}
	return &s, nil
}

// GenerateIdeasRequest is the payload for the idea generation endpoint.
type GenerateIdeasRequest struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count,omitempty"`
}

// GenerateIdeas asks the service for ideas matching the prompt.
func (c *Client) GenerateIdeas(ctx context.Context, req GenerateIdeasRequest) ([]domain.Idea, error) {
	var ideas []domain.Idea
	if err := c.post(ctx, "/api/v1/ideas/generate", req, &ideas); err != nil {
		return nil, fmt.Errorf("client.GenerateIdeas: %w", err)
	}
	return ideas, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		// Error bodies use {"error": ...}; some endpoints report via {"message": ...}.
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
