// internal/authapi/client.go
//
// Client for the remote username/password authentication endpoint.
//
// Context
// -------
// The login page never verifies credentials itself.  It forwards them, once
// per submission, to an external JSON API (dummyjson.com by default):
//
//	POST {base}/auth/login
//	Content-Type: application/json
//	{"username": "...", "password": "..."}
//
// A 2xx reply carries the user profile plus session tokens.  Anything else
// is a rejection.  The client never retries; a failed login needs a new,
// user-initiated submission.
//
// Notes
// -----
//   - Built on resty, the same way the SDK client sets base URL, headers, and
//     timeout once and reuses the instance.
//   - Timeout 0 leaves the transport default in place.
//   - Oxford commas, two spaces after periods.
package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultLoginPath is appended to the base URL when Config.LoginPath is empty.
const DefaultLoginPath = "/auth/login"

// Config represents client configuration.
type Config struct {
	BaseURL   string
	LoginPath string
	UserAgent string
	Timeout   time.Duration
	Debug     bool
}

// Credentials is the JSON body sent to the endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the success body.  Only FirstName and LastName drive the page;
// the rest is accepted so callers may log or forward it.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client is safe for concurrent use.  Create once at startup.
type Client struct {
	http      *resty.Client
	loginPath string
}

// New builds a Client.  BaseURL is required.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("authapi: base URL is required")
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "adept-login/1.0"
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if cfg.Timeout > 0 {
		hc.SetTimeout(cfg.Timeout)
	}
	if cfg.Debug {
		hc.SetDebug(true)
	}

	return &Client{http: hc, loginPath: cfg.LoginPath}, nil
}

// Login sends one authentication request.  It returns *APIError for a
// non-success status, and a wrapped error for transport or decode failures.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(creds).
		Post(c.loginPath)
	if err != nil {
		return nil, fmt.Errorf("authapi: login request: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}

	var u User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, fmt.Errorf("authapi: decode login response: %w", err)
	}
	return &u, nil
}
