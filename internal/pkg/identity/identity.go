// Package identity talks to the hosted identity provider: it verifies the
// session token carried by each request and looks up the caller's role.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/intentified/web/internal/config"
	"github.com/intentified/web/internal/pkg/jwt"
)

// RoleAdmin is the role allowed into the dashboard.
const RoleAdmin = "admin"

var ErrNotConfigured = errors.New("identity provider api is not configured")

// Session identifies the caller of a request.
type Session struct {
	UserID    string
	SessionID string
}

// Provider is the identity boundary consumed by the auth gate.
type Provider interface {
	// Session returns nil when the request carries no valid session.
	Session(r *http.Request) (*Session, error)
	// Role returns the role stored in the user's public metadata, "" when
	// none is set.
	Role(ctx context.Context, userID string) (string, error)
}

// APIError is a non-2xx answer from the provider's user API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity api error %d: %s", e.StatusCode, e.Body)
}

// Client implements Provider against the hosted provider.
type Client struct {
	apiURL    string
	secretKey string
	cookie    string
	tokens    *jwt.Signer
	http      *http.Client
}

// New builds a Client. A missing JWT secret disables session verification,
// so every protected route redirects to sign-in.
func New(cfg config.IdentityConfig) *Client {
	c := &Client{
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		secretKey: cfg.SecretKey,
		cookie:    cfg.SessionCookie,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	if signer, err := jwt.New(cfg.JWTSecret); err == nil {
		c.tokens = signer
	}
	return c
}

func (c *Client) Session(r *http.Request) (*Session, error) {
	if c.tokens == nil {
		return nil, nil
	}
	raw := c.extractToken(r)
	if raw == "" {
		return nil, nil
	}
	claims, err := c.tokens.Parse(raw)
	if err != nil {
		// An expired or foreign token is the same as no session.
		return nil, nil
	}
	return &Session{UserID: claims.UserID(), SessionID: claims.SessionID}, nil
}

func (c *Client) Role(ctx context.Context, userID string) (string, error) {
	if c.apiURL == "" {
		return "", ErrNotConfigured
	}
	endpoint := c.apiURL + "/v1/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if c.secretKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch user %s: %w", userID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var user struct {
		PublicMetadata map[string]interface{} `json:"public_metadata"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return "", fmt.Errorf("decode user %s: %w", userID, err)
	}
	role, _ := user.PublicMetadata["role"].(string)
	return role, nil
}

func (c *Client) extractToken(r *http.Request) string {
	if auth := NormalizeToken(r.Header.Get("Authorization")); auth != "" {
		return auth
	}
	if c.cookie == "" {
		return ""
	}
	if ck, err := r.Cookie(c.cookie); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
